package httpapi

import (
	"context"

	"github.com/nomadnova/nomadnova-api/internal/platform/auth"
)

type subjectKey struct{}

func WithSubject(ctx context.Context, sub auth.Subject) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

func SubjectFromContext(ctx context.Context) (auth.Subject, bool) {
	v, ok := ctx.Value(subjectKey{}).(auth.Subject)
	return v, ok && v.UserID != ""
}
