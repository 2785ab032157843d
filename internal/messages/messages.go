package messages

import (
	"fmt"
	"strings"
	"time"
)

const ParseModeHTML = "HTML"

func Escape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(strings.TrimSpace(s))
}

func ErrorDefault() string {
	return "🚫 <b>Something went wrong</b>\nPlease try again."
}

func ErrorUnknownCommand() string {
	return "❓ <b>Unknown command</b>"
}

func ErrorUnsupportedMessageType() string {
	return "🤖 <b>I can't work with that</b>\nPlease send text or use the buttons."
}

func StartWelcome() string {
	return "👋 <b>Welcome!</b>\nLet's get you your personalized Calisthenics Workout Plan."
}

func AlreadyPurchased(when time.Time) string {
	return fmt.Sprintf("✅ You already bought a plan on <b>%s</b>. Buying again extends it.",
		when.Format("Jan 2, 2006"))
}

func AskEmail(current string) string {
	msg := "📧 <b>Enter your email</b> to get your personalized plan."
	if strings.TrimSpace(current) != "" {
		msg += fmt.Sprintf("\n\nCurrent: <code>%s</code>", Escape(current))
	}
	return msg
}

func EmailInvalid() string {
	return "⚠️ Please enter a valid email"
}

func AskName(current string) string {
	msg := "🙋 <b>What's your name?</b>"
	if strings.TrimSpace(current) != "" {
		msg += fmt.Sprintf("\n\nCurrent: <code>%s</code>", Escape(current))
	}
	return msg
}

func NameInvalid() string {
	return "⚠️ Please enter a valid name (letters only, at least 3 characters)"
}

// ProductCard renders the plan "screen": price, per-day price and, while the
// discount window is open, the promo code with its live countdown.
func ProductCard(planName string, displayPrice, originalPrice float64, dailyPrice string, discountActive bool, promoCode, clock string) string {
	var b strings.Builder
	b.WriteString("🏋️ <b>Choose the best plan for you</b>\n\n")
	b.WriteString(fmt.Sprintf("📦 <b>%s</b> · 4 weeks\n", Escape(planName)))
	if discountActive {
		b.WriteString(fmt.Sprintf("💵 <s>$%.2f</s> <b>$%.2f</b> · $%s/day\n", originalPrice, displayPrice, dailyPrice))
		b.WriteString(fmt.Sprintf("\n🎟 Promo code <code>%s</code> applied\n", Escape(promoCode)))
		b.WriteString(fmt.Sprintf("⏳ Offer expires in <b>%s</b>", clock))
	} else {
		b.WriteString(fmt.Sprintf("💵 <b>$%.2f</b> · $%s/day", displayPrice, dailyPrice))
	}
	return b.String()
}

func CheckoutSummary(lockedPrice, originalPrice, discountAmount float64, discountActive bool, promoCode string) string {
	var b strings.Builder
	b.WriteString("🧾 <b>Order summary</b>\n\n")
	if discountActive {
		b.WriteString(fmt.Sprintf("Plan: $%.2f\n", originalPrice))
		b.WriteString(fmt.Sprintf("Promo <code>%s</code>: -$%.2f\n", Escape(promoCode), discountAmount))
	}
	b.WriteString(fmt.Sprintf("<b>Total: $%.2f</b>", lockedPrice))
	return b.String()
}

func AskCardNumber() string {
	return "💳 <b>Card number</b>\nEnter the 16 digits of your card."
}

func CardNumberInvalid(formatted string) string {
	msg := "⚠️ <b>That doesn't look like a full card number</b>"
	if formatted != "" {
		msg += fmt.Sprintf("\nGot so far: <code>%s</code>", Escape(formatted))
	}
	return msg + "\nPlease enter all 16 digits."
}

func AskExpiryDate() string {
	return "📅 <b>Expiry date</b>\nEnter it as MM/YY."
}

func ExpiryDateInvalid() string {
	return "⚠️ <b>That's not a valid month</b>\nEnter the expiry date as MM/YY."
}

func ExpiryDateExpired() string {
	return "⚠️ <b>This card has expired</b>\nPlease use a card with a valid expiry date."
}

func AskCVV() string {
	return "🔒 <b>CVV</b>\nEnter the 3 or 4 digit security code."
}

func CVVInvalid() string {
	return "⚠️ <b>The CVV needs at least 3 digits</b>"
}

func AskNameOnCard() string {
	return "✍️ <b>Name on card</b>"
}

func NameOnCardInvalid() string {
	return "⚠️ <b>Please enter the name exactly as printed on the card</b>"
}

func ConfirmOrder(maskedCard string, total float64) string {
	return fmt.Sprintf("✅ <b>Everything's ready</b>\nCard: <code>%s</code>\nTotal: <b>$%.2f</b>",
		Escape(maskedCard), total)
}

func FormIncomplete() string {
	return "⚠️ <b>Invalid form</b>\nPlease fill in all payment details correctly."
}

func PaymentProcessing() string {
	return "⏳ <b>Processing your payment…</b>"
}

func PaymentDeclined() string {
	return "🚫 <b>Payment failed</b>\nYour payment could not be processed. Please try again."
}

func PaymentFault() string {
	return "🚫 <b>Error</b>\nAn error occurred during checkout. Please try again."
}

func ThankYou(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "🎉 <b>Thank you!</b>\nYour plan is on its way to your inbox."
	}
	return fmt.Sprintf("🎉 <b>Thank you, %s!</b>\nYour plan is on its way to your inbox.", Escape(name))
}

func ResetDone() string {
	return "🧹 <b>All cleared</b>\nSend /start to begin again."
}

func UseTheButtons() string {
	return "👆 Please use the buttons above to continue."
}
