package cmd

// Config carries everything the composition root needs to wire the
// application: database coordinates, the HTTP port, and the operational
// policies that are deployment decisions rather than domain rules.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// MaxActiveOrders caps how many orders a single picker or packer may
	// hold at once.
	MaxActiveOrders int

	// ToleranceAutoAdjustPct and ToleranceApprovalPct are the fallback
	// cycle count thresholds used when no SKU or zone specific tolerance
	// is configured.
	ToleranceAutoAdjustPct float64
	ToleranceApprovalPct   float64
}
