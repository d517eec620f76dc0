package service

import (
	"strings"

	"github.com/dpit-cms/internal/constants"
)

var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusNew: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusInProgress: true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusInProgress: {
		constants.OrderStatusCompleted: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusCompleted: {},
	constants.OrderStatusCancelled: {},
}

// IsValidOrderStatus 是否为已知订单状态
func IsValidOrderStatus(status string) bool {
	_, ok := allowedTransitions[normalizeStatus(status)]
	return ok
}

// IsTerminalOrderStatus 终态不允许再流转
func IsTerminalOrderStatus(status string) bool {
	next, ok := allowedTransitions[normalizeStatus(status)]
	return ok && len(next) == 0
}

// CanTransitionOrderStatus 判断状态流转是否允许
func CanTransitionOrderStatus(from, to string) bool {
	next, ok := allowedTransitions[normalizeStatus(from)]
	if !ok {
		return false
	}
	return next[normalizeStatus(to)]
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}
