package domain

// ReportKind selects the period a sales report covers.
type ReportKind string

const (
	ReportDaily   ReportKind = "daily"
	ReportWeekly  ReportKind = "weekly"
	ReportMonthly ReportKind = "monthly"
	ReportYearly  ReportKind = "yearly"
)

// ReportKinds lists the kinds in display order.
var ReportKinds = []ReportKind{ReportDaily, ReportWeekly, ReportMonthly, ReportYearly}

// RequiredParams returns the query parameters the kind needs. The sets are
// disjoint between kinds except that monthly and yearly share "year".
func (k ReportKind) RequiredParams() []string {
	switch k {
	case ReportDaily:
		return []string{"date"}
	case ReportWeekly:
		return []string{"start_date", "end_date"}
	case ReportMonthly:
		return []string{"year", "month"}
	case ReportYearly:
		return []string{"year"}
	default:
		return nil
	}
}

// Valid reports whether k is one of the known kinds.
func (k ReportKind) Valid() bool { return k.RequiredParams() != nil }

// AdminOnly reports whether the kind is offered to admins only.
func (k ReportKind) AdminOnly() bool { return k == ReportYearly }
