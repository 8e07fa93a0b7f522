package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Payment:
		o.printPayment(v)
	case []Payment:
		o.printPayments(v)
	case Player:
		o.printPlayer(v)
	case []Player:
		for i := range v {
			if i > 0 {
				fmt.Println()
			}
			o.printPlayer(v[i])
		}
	case PaymentSummary:
		o.printPaymentSummary(v)
	case GameStats:
		o.printGameStats(v)
	case Rebuy:
		o.printRebuy(v)
	case HostAuth:
		o.printHostAuth(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Payment response type (matches API)
type Payment struct {
	ID               string                     `json:"id"`
	PlayerID         string                     `json:"player_id"`
	Type             string                     `json:"type"`
	Amount           decimal.Decimal            `json:"amount"`
	Method           string                     `json:"method"`
	Status           string                     `json:"status"`
	DealerFeeApplied bool                       `json:"dealer_fee_applied"`
	DealerFee        decimal.Decimal            `json:"dealer_fee"`
	PayoutSplit      map[string]decimal.Decimal `json:"payout_split,omitempty"`
	CreatedAt        time.Time                  `json:"created_at"`
	ConfirmedAt      *time.Time                 `json:"confirmed_at,omitempty"`
}

// Player response type
type Player struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	Total     decimal.Decimal `json:"total"`
	Payments  []Payment       `json:"payments"`
}

// PaymentSummary response type
type PaymentSummary struct {
	Player
	DealerFeePaid  decimal.Decimal `json:"dealer_fee_paid"`
	ConfirmedCount int             `json:"confirmed_count"`
	PendingCount   int             `json:"pending_count"`
}

// MethodTotals response type
type MethodTotals struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// GameStats response type
type GameStats struct {
	TotalPot        decimal.Decimal         `json:"total_pot"`
	TotalDealerFees decimal.Decimal         `json:"total_dealer_fees"`
	TotalBuyIns     decimal.Decimal         `json:"total_buy_ins"`
	TotalCashOuts   decimal.Decimal         `json:"total_cash_outs"`
	MethodBreakdown map[string]MethodTotals `json:"payment_method_breakdown"`
	PayoutBreakdown map[string]MethodTotals `json:"payout_method_breakdown"`
	PlayerCount     int                     `json:"player_count"`
	PendingCount    int                     `json:"pending_count"`
}

// Rebuy response type
type Rebuy struct {
	Payment       Payment `json:"payment"`
	Player        Player  `json:"player"`
	PlayerCreated bool    `json:"player_created"`
}

// HostAuth response type
type HostAuth struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPayment(p Payment) {
	feeStr := ""
	if p.DealerFeeApplied {
		feeStr = fmt.Sprintf(" (dealer fee %s)", p.DealerFee.StringFixed(2))
	}
	fmt.Printf("%s  %-7s %8s  %-9s %-9s%s\n",
		p.CreatedAt.Format("15:04:05"), p.Type, p.Amount.StringFixed(2), p.Method, p.Status, feeStr)
	if len(p.PayoutSplit) > 0 {
		for _, method := range sortedKeys(p.PayoutSplit) {
			fmt.Printf("    paid out %s via %s\n", p.PayoutSplit[method].StringFixed(2), method)
		}
	}
}

func (o *Output) printPayments(payments []Payment) {
	if len(payments) == 0 {
		fmt.Println("No payments")
		return
	}
	for _, p := range payments {
		o.printPayment(p)
	}
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.Name, p.ID)
	fmt.Printf("Total: %s\n", p.Total.StringFixed(2))
	if len(p.Payments) > 0 {
		fmt.Printf("Payments (%d):\n", len(p.Payments))
		for _, pay := range p.Payments {
			fmt.Print("  ")
			o.printPayment(pay)
		}
	}
}

func (o *Output) printPaymentSummary(s PaymentSummary) {
	o.printPlayer(s.Player)
	fmt.Printf("Dealer Fee Paid: %s\n", s.DealerFeePaid.StringFixed(2))
	fmt.Printf("Confirmed: %d  Pending: %d\n", s.ConfirmedCount, s.PendingCount)
}

func (o *Output) printGameStats(s GameStats) {
	fmt.Printf("Total Pot: %s\n", s.TotalPot.StringFixed(2))
	fmt.Printf("Total Buy-Ins: %s\n", s.TotalBuyIns.StringFixed(2))
	fmt.Printf("Total Cash-Outs: %s\n", s.TotalCashOuts.StringFixed(2))
	fmt.Printf("Dealer Fees: %s\n", s.TotalDealerFees.StringFixed(2))
	fmt.Printf("Players: %d  Pending Payments: %d\n", s.PlayerCount, s.PendingCount)

	if len(s.MethodBreakdown) > 0 {
		fmt.Println("Buy-In Methods:")
		printBreakdown(s.MethodBreakdown)
	}
	if len(s.PayoutBreakdown) > 0 {
		fmt.Println("Payout Methods:")
		printBreakdown(s.PayoutBreakdown)
	}
}

func printBreakdown(breakdown map[string]MethodTotals) {
	methods := make([]string, 0, len(breakdown))
	for method := range breakdown {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	for _, method := range methods {
		totals := breakdown[method]
		fmt.Printf("  %-9s %10s (%d payments)\n", method, totals.Total.StringFixed(2), totals.Count)
	}
}

func (o *Output) printRebuy(r Rebuy) {
	if r.PlayerCreated {
		fmt.Printf("Created player %s\n", r.Player.Name)
	}
	o.printPayment(r.Payment)
}

func (o *Output) printHostAuth(a HostAuth) {
	fmt.Printf("Logged in, session valid until %s\n", a.ExpiresAt.Format(time.RFC1123))
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
