package provider_test

import (
	"context"
	"testing"

	"github.com/fonthenet/sihadz-api/internal/domain/provider"
)

func TestResolveLooseTokens(t *testing.T) {
	// Empty and malformed tokens resolve to "no provider" without any
	// store access, so a nil-backed repository is safe here.
	svc := provider.NewService(provider.NewRepository(nil), nil, 0)

	p, err := svc.Resolve(context.Background(), "")
	if err != nil || p != nil {
		t.Errorf("empty token: got %v, %v, want nil, nil", p, err)
	}

	p, err = svc.Resolve(context.Background(), "dr-smith")
	if err != nil || p != nil {
		t.Errorf("malformed token: got %v, %v, want nil, nil", p, err)
	}

	p, err = svc.Resolve(context.Background(), "123e4567-e89b-12d3-a456-42661417400")
	if err != nil || p != nil {
		t.Errorf("truncated uuid: got %v, %v, want nil, nil", p, err)
	}
}
