package domain

type Employee struct {
	ID       int64  `json:"id" validate:"required,gt=0"`
	TenantID int64  `json:"tenantId"`
	Name     string `json:"name"`
	Version  int64  `json:"version,omitempty"`
}
