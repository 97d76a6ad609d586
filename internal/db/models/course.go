package models

import "github.com/uptrace/bun"

// Course is an entry in the fixed course catalogue seeded by migrations.
type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	Code string `bun:"code,pk"`
	Name string `bun:"name,notnull,unique"`
}

// DefaultCourses is the catalogue seeded on first migration.
var DefaultCourses = []Course{
	{Code: "CS", Name: "Computer Science"},
	{Code: "SE", Name: "Software Engineering"},
	{Code: "IT", Name: "Information Technology"},
	{Code: "CT", Name: "Computer Technology"},
	{Code: "CIS", Name: "Computer Information Systems"},
}
