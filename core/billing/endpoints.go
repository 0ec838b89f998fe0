package billing

import (
	"net/http"

	"github.com/supernitin06/erp-tenants-sub000/core/resource"
)

type (
	NoArgs struct{}

	CreateOrderArgs struct {
		PlanID string `json:"planId" validate:"required"`
	}
)

var GetPlans = resource.Endpoint[NoArgs, resource.List[Plan]]{
	Name:     "getPlans",
	Method:   http.MethodGet,
	Path:     func(NoArgs) string { return "/api/v1/plans" },
	Provides: func(NoArgs) []resource.Tag { return []resource.Tag{{Type: resource.TagPlan}} },
	Transform: func(raw []byte) (resource.List[Plan], error) {
		return resource.UnwrapList[Plan](raw, "plans")
	},
}

var GetPlanHistory = resource.Endpoint[NoArgs, resource.List[PaymentRecord]]{
	Name:     "getPlanHistory",
	Method:   http.MethodGet,
	Path:     func(NoArgs) string { return "/api/v1/payments/history" },
	Provides: func(NoArgs) []resource.Tag { return []resource.Tag{{Type: resource.TagPayment}} },
	Transform: func(raw []byte) (resource.List[PaymentRecord], error) {
		return resource.UnwrapList[PaymentRecord](raw, "payments")
	},
}

// CreateOrder starts a checkout with the payment collaborator; the response
// carries the order id and a QR url for the user to scan.
var CreateOrder = resource.Endpoint[CreateOrderArgs, Order]{
	Name:        "createOrder",
	Method:      http.MethodPost,
	Path:        func(CreateOrderArgs) string { return "/api/v1/payments/order" },
	Body:        func(a CreateOrderArgs) (interface{}, error) { return a, nil },
	Invalidates: func(CreateOrderArgs) []resource.Tag { return []resource.Tag{{Type: resource.TagPayment}} },
	Transform:   resource.UnwrapObject[Order],
	Pending:     "Creating order...",
}
