package repository

import "time"

// ServiceListFilter 查询服务列表的过滤条件
type ServiceListFilter struct {
	Page        int
	PageSize    int
	Search      string
	OnlyActive  bool
	OnlyPopular bool
}

// PortfolioListFilter 查询作品集列表的过滤条件
type PortfolioListFilter struct {
	Page          int
	PageSize      int
	OnlyActive    bool
	OnlyOrderable bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	Paid        *bool
	OrderNo     string
	Email       string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
