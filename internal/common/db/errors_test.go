package db

import (
	"errors"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"

	commonerrors "github.com/inkpress/inkpress/backend/internal/common/errors"
	"github.com/inkpress/inkpress/backend/internal/observability/metrics"
)

func TestHandleQueryError_NilPassesThrough(t *testing.T) {
	if err := HandleQueryError(nil, commonerrors.ErrUserNotFound, "find_user_by_id", "users", time.Now()); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestHandleQueryError_NoRowsMapsToNotFound(t *testing.T) {
	err := HandleQueryError(pgx.ErrNoRows, commonerrors.ErrUserNotFound, "find_user_by_id", "users", time.Now())
	if !errors.Is(err, commonerrors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestHandleQueryError_CountsUnexpectedErrors(t *testing.T) {
	cause := errors.New("connection reset")
	counter := metrics.DBQueryErrors.WithLabelValues("find_user_by_username", "users", "*errors.errorString")
	before := testutil.ToFloat64(counter)

	err := HandleQueryError(cause, commonerrors.ErrUserNotFound, "find_user_by_username", "users", time.Now())
	if !errors.Is(err, cause) {
		t.Errorf("expected the cause to be wrapped, got %v", err)
	}
	if errors.Is(err, commonerrors.ErrUserNotFound) {
		t.Error("an unexpected error must not map to not-found")
	}

	if after := testutil.ToFloat64(counter); after != before+1 {
		t.Errorf("expected error counter to increment by 1, got %v -> %v", before, after)
	}
}

func TestHandleExecError_CountsErrors(t *testing.T) {
	cause := errors.New("connection refused")
	counter := metrics.DBQueryErrors.WithLabelValues("create_post", "posts", "*errors.errorString")
	before := testutil.ToFloat64(counter)

	err := HandleExecError(cause, "create_post", "posts", time.Now())
	if !errors.Is(err, cause) {
		t.Errorf("expected the cause to be wrapped, got %v", err)
	}

	if after := testutil.ToFloat64(counter); after != before+1 {
		t.Errorf("expected error counter to increment by 1, got %v -> %v", before, after)
	}

	if err := HandleExecError(nil, "create_post", "posts", time.Now()); err != nil {
		t.Errorf("expected nil for a clean statement, got %v", err)
	}
}
