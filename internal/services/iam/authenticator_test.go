package iam

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/terraconstructs/logbook/internal/auth"
	"github.com/terraconstructs/logbook/internal/db/models"
	"github.com/terraconstructs/logbook/internal/repository"
	"github.com/terraconstructs/logbook/internal/telemetry"
)

type gateFixture struct {
	gate     *Gate
	codec    *auth.TokenCodec
	students *mockStudentRepository
	admins   *mockAdminRepository
	admin    *models.Admin
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	codec, err := auth.NewTokenCodec([]byte("gate-test-secret"), time.Hour)
	require.NoError(t, err)

	students := newMockStudentRepository()
	require.NoError(t, students.Create(context.Background(), &models.Student{
		MatricNum: "U100", FirstName: "A", LastName: "B", CourseCode: "CS",
	}))

	admins := newMockAdminRepository()
	admin := &models.Admin{Name: "root"}
	require.NoError(t, admins.Create(context.Background(), admin))

	return &gateFixture{
		gate:     NewGate(codec, students, admins),
		codec:    codec,
		students: students,
		admins:   admins,
		admin:    admin,
	}
}

func (f *gateFixture) token(t *testing.T, subject string, isAdmin bool) string {
	t.Helper()
	tok, err := f.codec.Encode(subject, isAdmin)
	require.NoError(t, err)
	return tok
}

func bearer(value string) AuthRequest {
	h := http.Header{}
	h.Set("Authorization", value)
	return AuthRequest{Headers: h}
}

func TestGate_AuthenticateStudent(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	studentToken := f.token(t, "U100", false)
	adminToken := f.token(t, f.admin.SubjectID(), true)
	ghostToken := f.token(t, "U999", false)

	expired, err := f.codec.EncodeWithTTL("U100", false, -time.Second)
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     AuthRequest
		wantErr *AuthError
	}{
		{name: "no header", req: AuthRequest{Headers: http.Header{}}, wantErr: ErrMissingToken},
		{name: "nil headers", req: AuthRequest{}, wantErr: ErrMissingToken},
		{name: "scheme only", req: bearer("Bearer"), wantErr: ErrMissingToken},
		{name: "garbage token", req: bearer("Bearer garbage"), wantErr: ErrInvalidToken},
		{name: "expired token", req: bearer("Bearer " + expired), wantErr: ErrInvalidToken},
		{name: "admin token on student gate", req: bearer("Bearer " + adminToken), wantErr: ErrInvalidToken},
		{name: "unknown student", req: bearer("Bearer " + ghostToken), wantErr: ErrInvalidToken},
		{name: "valid", req: bearer("Bearer " + studentToken)},
		{name: "valid with arbitrary scheme", req: bearer("JWT " + studentToken)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			student, err := f.gate.AuthenticateStudent(ctx, tt.req)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, student)
				assert.ErrorIs(t, err, tt.wantErr)

				authErr, ok := AsAuthError(err)
				require.True(t, ok)
				assert.Equal(t, http.StatusUnauthorized, authErr.Code)
				assert.Equal(t, tt.wantErr.Message, authErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "U100", student.MatricNum)
		})
	}
}

func TestGate_AuthenticateAdmin(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		token   string
		wantErr *AuthError
	}{
		{name: "valid", token: f.token(t, f.admin.SubjectID(), true)},
		{name: "student token on admin gate", token: f.token(t, "U100", false), wantErr: ErrInvalidToken},
		{name: "non-numeric subject", token: f.token(t, "root", true), wantErr: ErrInvalidToken},
		{name: "unknown admin", token: f.token(t, "9999", true), wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin, err := f.gate.AuthenticateAdmin(ctx, bearer("Bearer "+tt.token))
			if tt.wantErr != nil {
				assert.Nil(t, admin)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, f.admin.ID, admin.ID)
		})
	}
}

func TestGate_DeletedPrincipalLooksLikeMalformedToken(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	tok := f.token(t, "U100", false)
	_, err := f.gate.AuthenticateStudent(ctx, bearer("Bearer "+tok))
	require.NoError(t, err)

	f.students.delete("U100")

	_, deletedErr := f.gate.AuthenticateStudent(ctx, bearer("Bearer "+tok))
	_, malformedErr := f.gate.AuthenticateStudent(ctx, bearer("Bearer not.a.token"))

	require.Error(t, deletedErr)
	require.Error(t, malformedErr)
	assert.Equal(t, malformedErr, deletedErr)
	assert.Equal(t, "Invalid token.", deletedErr.Error())
}

func TestGate_StoreErrorPropagates(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()
	outage := errors.New("connection refused")

	t.Run("student store", func(t *testing.T) {
		f.students.err = outage
		defer func() { f.students.err = nil }()

		_, err := f.gate.AuthenticateStudent(ctx, bearer("Bearer "+f.token(t, "U100", false)))
		require.Error(t, err)
		assert.ErrorIs(t, err, outage)
		_, isAuthErr := AsAuthError(err)
		assert.False(t, isAuthErr)
	})

	t.Run("admin store", func(t *testing.T) {
		f.admins.err = outage
		defer func() { f.admins.err = nil }()

		_, err := f.gate.AuthenticateAdmin(ctx, bearer("Bearer "+f.token(t, f.admin.SubjectID(), true)))
		assert.ErrorIs(t, err, outage)
		_, isAuthErr := AsAuthError(err)
		assert.False(t, isAuthErr)
	})
}

func TestGate_SkipsStoreWhenTokenRejected(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()
	before := f.students.lookups

	_, err := f.gate.AuthenticateStudent(ctx, bearer("Bearer "+f.token(t, f.admin.SubjectID(), true)))
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = f.gate.AuthenticateStudent(ctx, AuthRequest{Headers: http.Header{}})
	assert.ErrorIs(t, err, ErrMissingToken)

	assert.Equal(t, before, f.students.lookups)

	_, err = f.gate.AuthenticateStudent(ctx, bearer("Bearer "+f.token(t, "U100", false)))
	require.NoError(t, err)
	assert.Equal(t, before+1, f.students.lookups)
}

func TestGate_Principal(t *testing.T) {
	f := newGateFixture(t)
	m, err := telemetry.NewAuthMetrics()
	require.NoError(t, err)
	f.gate.WithMetrics(m)

	p, err := f.gate.Authenticate(context.Background(), RoleStudent, bearer("Bearer "+f.token(t, "U100", false)))
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, p.Role)
	assert.Equal(t, "U100", p.SubjectID())
	assert.Nil(t, p.Admin)
	assert.NotEmpty(t, p.TokenID)

	ctx := WithPrincipal(context.Background(), p)
	student, ok := StudentFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "U100", student.MatricNum)

	_, ok = AdminFromContext(ctx)
	assert.False(t, ok)

	_, ok = PrincipalFromContext(context.Background())
	assert.False(t, ok)
}

func TestGate_RecordsOutcome(t *testing.T) {
	f := newGateFixture(t)
	reader := sdkmetric.NewManualReader()
	m, err := telemetry.NewAuthMetricsWithProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)
	f.gate.WithMetrics(m)

	ctx := context.Background()
	studentTok := f.token(t, "U100", false)

	_, _ = f.gate.Authenticate(ctx, RoleStudent, bearer("Bearer "+studentTok))
	_, _ = f.gate.Authenticate(ctx, RoleStudent, AuthRequest{Headers: http.Header{}})
	_, _ = f.gate.Authenticate(ctx, RoleStudent, bearer("Bearer not.a.jwt"))
	_, _ = f.gate.Authenticate(ctx, RoleAdmin, bearer("Bearer "+studentTok))
	_, _ = f.gate.Authenticate(ctx, RoleStudent, bearer("Bearer "+f.token(t, "U999", false)))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	got := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			if metric.Name != "auth.attempt.count" {
				continue
			}
			sum, ok := metric.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value(attribute.Key(telemetry.AttrAuthOutcome))
				got[v.AsString()] += dp.Value
			}
		}
	}

	assert.Equal(t, map[string]int64{
		"ok":              1,
		"missing_token":   1,
		"invalid_token":   1,
		"wrong_role":      1,
		"unknown_subject": 1,
	}, got)
}

var _ repository.StudentRepository = (*mockStudentRepository)(nil)
var _ repository.AdminRepository = (*mockAdminRepository)(nil)
var _ repository.CourseRepository = mockCourseRepository{}
