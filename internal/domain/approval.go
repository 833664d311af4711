package domain

type ApprovalMode string

const (
	ApprovalModeAuto         ApprovalMode = "auto_approve"
	ApprovalModeManual       ApprovalMode = "manual"
	ApprovalModeRatingBased  ApprovalMode = "rating_based"
	ApprovalModeVerifiedOnly ApprovalMode = "verified_only"
)

// DefaultRenterRating stands in for a renter who has no reviews yet. New users
// pass rating gates until real reviews pull them down.
const DefaultRenterRating = 5.0

// ApprovalPolicy is the resolved decision input for one item: item-level
// overrides merged over the owner's defaults, field by field.
type ApprovalPolicy struct {
	Mode      ApprovalMode
	Threshold float64
	OwnerID   string
}

// ApprovalDecision is the outcome of evaluating a policy against a renter.
type ApprovalDecision struct {
	ShouldAutoApprove bool
	Mode              ApprovalMode
	Threshold         *float64
}

// ResolveApprovalPolicy merges the item's overrides over the owner's defaults.
// Each field falls back independently.
func ResolveApprovalPolicy(item *Item, owner *User) ApprovalPolicy {
	p := ApprovalPolicy{
		Mode:      owner.DefaultApprovalMode,
		Threshold: owner.DefaultApprovalThreshold,
		OwnerID:   owner.ID,
	}
	if item.ApprovalMode != nil {
		p.Mode = *item.ApprovalMode
	}
	if item.ApprovalThreshold != nil {
		p.Threshold = *item.ApprovalThreshold
	}
	if p.Mode == "" {
		p.Mode = ApprovalModeAuto
	}
	return p
}

// Evaluate decides whether a renter with the given rating and verification
// state is auto-approved under this policy. A nil rating means no reviews yet
// and counts as DefaultRenterRating. Unknown modes auto-approve.
func (p ApprovalPolicy) Evaluate(rating *float64, isVerified bool) ApprovalDecision {
	switch p.Mode {
	case ApprovalModeManual:
		return ApprovalDecision{ShouldAutoApprove: false, Mode: p.Mode}
	case ApprovalModeRatingBased:
		r := DefaultRenterRating
		if rating != nil {
			r = *rating
		}
		threshold := p.Threshold
		return ApprovalDecision{
			ShouldAutoApprove: r >= threshold,
			Mode:              p.Mode,
			Threshold:         &threshold,
		}
	case ApprovalModeVerifiedOnly:
		return ApprovalDecision{ShouldAutoApprove: isVerified, Mode: p.Mode}
	default:
		return ApprovalDecision{ShouldAutoApprove: true, Mode: ApprovalModeAuto}
	}
}
