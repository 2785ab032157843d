package types

type FunnelState string

const (
	StateEmail      FunnelState = "email"
	StateName       FunnelState = "name"
	StateProduct    FunnelState = "product"
	StateCardNumber FunnelState = "card_number"
	StateExpiry     FunnelState = "expiry"
	StateCVV        FunnelState = "cvv"
	StateNameOnCard FunnelState = "name_on_card"
	StateConfirm    FunnelState = "confirm"
	StateThankYou   FunnelState = "thank_you"
)

const (
	CallbackGetPlan   string = "plan_confirm"
	CallbackBuyNow    string = "buy_now"
	CallbackPayRetry  string = "pay_retry"
	CallbackPayCancel string = "pay_cancel"
)
