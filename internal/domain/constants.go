package domain

const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleStaff   = "STAFF"
)

// EntryKind is the kind of coin movement a ledger entry records.
type EntryKind string

const (
	KindFreeplay EntryKind = "freeplay"
	KindDeposit  EntryKind = "deposit"
	KindRedeem   EntryKind = "redeem"
)

func (k EntryKind) Valid() bool {
	switch k {
	case KindFreeplay, KindDeposit, KindRedeem:
		return true
	}
	return false
}

// Method is the payment rail a deposit or redemption moved through.
type Method string

const (
	MethodCashApp Method = "cashapp"
	MethodPayPal  Method = "paypal"
	MethodChime   Method = "chime"
	MethodVenmo   Method = "venmo"
)

// Methods lists the recognized payment methods in display order.
var Methods = []Method{MethodCashApp, MethodPayPal, MethodChime, MethodVenmo}

func (m Method) Valid() bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// EntryMode selects the entry flow. Player-tag entries carry the player's cashout.
type EntryMode string

const (
	ModeOurTag    EntryMode = "our_tag"
	ModePlayerTag EntryMode = "player_tag"
)

func (m EntryMode) Valid() bool {
	return m == ModeOurTag || m == ModePlayerTag
}

const (
	PaymentDirectionIn  = "in"
	PaymentDirectionOut = "out"
)

// DateLayout is the layout of every reporting date stored on entries, payments and schedules.
const DateLayout = "2006-01-02"

// TimeOfDayLayout is the layout of schedule shift boundaries.
const TimeOfDayLayout = "15:04"

const (
	EventEntryCreated   = "entry.created"
	EventEntryUpdated   = "entry.updated"
	EventEntryDeleted   = "entry.deleted"
	EventPendingCleared = "entry.pending_cleared"
	EventPayoutRecorded = "entry.payout_recorded"
	EventBalanceRepair  = "game.balance_repaired"
)
