package effects

// Tier holds the responsive falloff parameters for one viewport class.
type Tier struct {
	Name string
	// MaxWidth is the exclusive upper viewport width of the tier; 0 means unbounded.
	MaxWidth    float64
	MaxDistance float64
	BaseScale   float64
}

// Tiers ordered from narrowest to widest.
var (
	TierMobile  = Tier{Name: "mobile", MaxWidth: 768, MaxDistance: 320, BaseScale: 0.85}
	TierTablet  = Tier{Name: "tablet", MaxWidth: 1024, MaxDistance: 480, BaseScale: 0.8}
	TierDesktop = Tier{Name: "desktop", MaxDistance: 640, BaseScale: 0.75}
)

// TierFor picks the tier for a viewport width.
func TierFor(width float64) Tier {
	switch {
	case width < TierMobile.MaxWidth:
		return TierMobile
	case width < TierTablet.MaxWidth:
		return TierTablet
	default:
		return TierDesktop
	}
}
