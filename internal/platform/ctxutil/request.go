package ctxutil

import "context"

type requestDataKey struct{}

// RequestData is the per-request caller identity. AccessToken is forwarded to the
// content store in place of the service token; Actor is recorded in edit history.
type RequestData struct {
	AccessToken string
	Actor       string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// AccessToken returns the caller token, or "" when none is attached.
func AccessToken(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.AccessToken
	}
	return ""
}

// Actor returns the caller identity, or "" when none is attached.
func Actor(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.Actor
	}
	return ""
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
