package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraconstructs/logbook/internal/db/dbtest"
	"github.com/terraconstructs/logbook/internal/db/models"
)

func newStudent(matric, first, last, course string) *models.Student {
	return &models.Student{
		MatricNum:    matric,
		FirstName:    first,
		LastName:     last,
		CourseCode:   course,
		PasswordHash: "hash",
	}
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestBunStudentRepository(t *testing.T) {
	db := dbtest.NewSQLite(t)
	repo := NewBunStudentRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newStudent("U100", "Ada", "Lovelace", "CS")))
	require.NoError(t, repo.Create(ctx, newStudent("CSC/2019/001", "Alan", "Turing", "SE")))
	bob := newStudent("U200", "Bob", "Marley", "IT")
	bob.MiddleName = "Nesta"
	require.NoError(t, repo.Create(ctx, bob))
	require.NoError(t, repo.Create(ctx, newStudent("CS_7", "Grace", "Hopper", "IT")))

	t.Run("duplicate matric number", func(t *testing.T) {
		err := repo.Create(ctx, newStudent("U100", "Other", "Person", "CS"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("unknown course violates foreign key", func(t *testing.T) {
		err := repo.Create(ctx, newStudent("U300", "No", "Course", "XX"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("get by matric number loads course", func(t *testing.T) {
		s, err := repo.GetByMatricNum(ctx, "CSC/2019/001")
		require.NoError(t, err)
		assert.Equal(t, "Alan", s.FirstName)
		require.NotNil(t, s.Course)
		assert.Equal(t, "Software Engineering", s.CourseName())
		assert.False(t, s.CreatedAt.IsZero())
	})

	t.Run("get missing student", func(t *testing.T) {
		_, err := repo.GetByMatricNum(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	tests := []struct {
		name   string
		filter StudentFilter
		want   []string
	}{
		{"all", StudentFilter{}, []string{"CSC/2019/001", "CS_7", "U100", "U200"}},
		{"by first name", StudentFilter{Name: "ada"}, []string{"U100"}},
		{"by middle name", StudentFilter{Name: "NEST"}, []string{"U200"}},
		{"by last name", StudentFilter{Name: "uring"}, []string{"CSC/2019/001"}},
		{"by course name", StudentFilter{Course: "computer"}, []string{"U100"}},
		{"by matric number", StudentFilter{MatricNum: "u"}, []string{"U100", "U200"}},
		{"no match", StudentFilter{Name: "zzz"}, nil},
		{"percent matches literally", StudentFilter{Name: "a%a"}, nil},
		{"underscore matches literally", StudentFilter{MatricNum: "_"}, []string{"CS_7"}},
	}
	for _, tt := range tests {
		t.Run("list "+tt.name, func(t *testing.T) {
			students, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)

			var got []string
			for _, s := range students {
				got = append(got, s.MatricNum)
				assert.NotNil(t, s.Course)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBunAdminRepository(t *testing.T) {
	db := dbtest.NewSQLite(t)
	repo := NewBunAdminRepository(db)
	ctx := context.Background()

	admin := &models.Admin{Name: "root", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, admin))
	assert.NotZero(t, admin.ID)

	t.Run("duplicate name", func(t *testing.T) {
		err := repo.Create(ctx, &models.Admin{Name: "root", PasswordHash: "other"})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, "root", got.Name)
	})

	t.Run("get by name", func(t *testing.T) {
		got, err := repo.GetByName(ctx, "root")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, got.ID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.GetByID(ctx, admin.ID+100)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.GetByName(ctx, "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBunCourseRepository(t *testing.T) {
	db := dbtest.NewSQLite(t)
	repo := NewBunCourseRepository(db)
	ctx := context.Background()

	courses, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, courses, len(models.DefaultCourses))
	assert.Equal(t, "CIS", courses[0].Code)

	c, err := repo.GetByCode(ctx, "CT")
	require.NoError(t, err)
	assert.Equal(t, "Computer Technology", c.Name)

	c, err = repo.GetByName(ctx, "information technology")
	require.NoError(t, err)
	assert.Equal(t, "IT", c.Code)

	_, err = repo.GetByCode(ctx, "cs")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBunLogRepository(t *testing.T) {
	db := dbtest.NewSQLite(t)
	students := NewBunStudentRepository(db)
	repo := NewBunLogRepository(db)
	ctx := context.Background()

	require.NoError(t, students.Create(ctx, newStudent("U100", "Ada", "Lovelace", "CS")))
	require.NoError(t, students.Create(ctx, newStudent("U200", "Bob", "Marley", "IT")))

	older := &models.LogEntry{EntryDate: mustDate(t, "2024-01-02"), Data: "first day", MatricNum: "U100"}
	newer := &models.LogEntry{EntryDate: mustDate(t, "2024-02-10"), Data: "second entry", MatricNum: "U100"}
	other := &models.LogEntry{EntryDate: mustDate(t, "2024-01-05"), Data: "not yours", MatricNum: "U200"}
	for _, e := range []*models.LogEntry{older, newer, other} {
		require.NoError(t, repo.Create(ctx, e))
		assert.NotZero(t, e.ID)
	}

	t.Run("unknown student violates foreign key", func(t *testing.T) {
		err := repo.Create(ctx, &models.LogEntry{EntryDate: mustDate(t, "2024-01-01"), Data: "x", MatricNum: "ghost"})
		assert.Error(t, err)
	})

	t.Run("list is scoped and ordered", func(t *testing.T) {
		entries, err := repo.ListByStudent(ctx, "U100")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, newer.ID, entries[0].ID)
		assert.Equal(t, "2024-02-10", entries[0].EntryDate.String())
		assert.Equal(t, older.ID, entries[1].ID)
	})

	t.Run("list for student without logs is empty", func(t *testing.T) {
		require.NoError(t, students.Create(ctx, newStudent("U300", "Cy", "Young", "SE")))
		entries, err := repo.ListByStudent(ctx, "U300")
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("get own log", func(t *testing.T) {
		e, err := repo.GetForStudent(ctx, "U100", older.ID)
		require.NoError(t, err)
		assert.Equal(t, "first day", e.Data)
		assert.Equal(t, "2024-01-02", e.EntryDate.String())
	})

	t.Run("get someone else's log", func(t *testing.T) {
		_, err := repo.GetForStudent(ctx, "U100", other.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete someone else's log", func(t *testing.T) {
		err := repo.DeleteForStudent(ctx, "U100", other.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = repo.GetForStudent(ctx, "U200", other.ID)
		assert.NoError(t, err)
	})

	t.Run("delete own log", func(t *testing.T) {
		require.NoError(t, repo.DeleteForStudent(ctx, "U100", older.ID))

		_, err := repo.GetForStudent(ctx, "U100", older.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		err = repo.DeleteForStudent(ctx, "U100", older.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
