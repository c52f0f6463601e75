package handler

type ContextKey string

var (
	UserCtxKey     ContextKey = "user"
	TenantIDCtxKey ContextKey = "tenantId"
)
