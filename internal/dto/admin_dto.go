package dto

// AdminLoginRequest carries console credentials.
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminUserFilter narrows the admin user listing. Pages are 1-based.
type AdminUserFilter struct {
	Username string `validate:"omitempty"`
	NickName string `validate:"omitempty"`
	Page     int    `validate:"gte=1"`
	PageSize int    `validate:"gte=1,lte=100"`
}

// AdminUserUpdateRequest describes a partial account update performed from the console.
type AdminUserUpdateRequest struct {
	NickName         *string `json:"nick_name"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email" validate:"omitempty,email"`
	TargetUniversity *string `json:"target_university"`
	TargetMajor      *string `json:"target_major"`
	ExamYear         *string `json:"exam_year"`
	Role             *string `json:"role" validate:"omitempty,oneof=USER ADMIN"`
	Enabled          *bool   `json:"enabled"`
}

// UserPageResponse wraps a page of accounts with paging metadata.
type UserPageResponse struct {
	Items    []UserResponse `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// AdminStatisticsResponse summarises row counts for the console dashboard.
type AdminStatisticsResponse struct {
	TotalUsers     int64 `json:"total_users"`
	TotalQuestions int64 `json:"total_questions"`
	TotalResources int64 `json:"total_resources"`
	TotalPosts     int64 `json:"total_posts"`
	TotalCheckIns  int64 `json:"total_check_ins"`
}
