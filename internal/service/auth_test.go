package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/camp-directory/internal/service"
)

func TestAuthService_Validate(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		candidate string
		want      bool
	}{
		{"match", "s3cret", "s3cret", true},
		{"mismatch", "s3cret", "s3creT", false},
		{"prefix", "s3cret", "s3c", false},
		{"empty candidate", "s3cret", "", false},
		{"unconfigured secret matches nothing", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewAuthService(tt.secret)
			assert.Equal(t, tt.want, svc.Validate(tt.candidate))
		})
	}
}
