package dto

// Meta 包含分页元数据。Page 从 0 开始。
type Meta struct {
	Page     uint  `json:"page"`
	PageSize uint  `json:"page_size"`
	Total    int64 `json:"total,omitempty"`
}

// PageParams 通用的分页参数。PageSize 为空时使用配置中的默认值。
type PageParams struct {
	Page     uint  `form:"page"`
	PageSize *uint `form:"page_size"`
}

// SizeOr returns the requested page size, or fallback when none was given.
func (p PageParams) SizeOr(fallback uint) uint {
	if p.PageSize == nil {
		return fallback
	}
	return *p.PageSize
}
