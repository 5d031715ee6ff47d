package analysis

// Report is the top-level structure for the music DNA report.
type Report struct {
	GenreAnalysis    GenreAnalysis    `yaml:"genre_analysis" json:"genreAnalysis"`
	DiversityMetrics DiversityMetrics `yaml:"diversity_metrics" json:"diversityMetrics"`
}

// GenreBreakdown is one parent genre's share of the weighted tag mass.
type GenreBreakdown struct {
	Name        string  `yaml:"name" json:"name"`
	Percentage  float64 `yaml:"percentage" json:"percentage"`
	Weight      float64 `yaml:"weight" json:"weight"`
	ArtistCount int     `yaml:"artist_count" json:"artistCount"`
	Specificity float64 `yaml:"specificity" json:"specificity"`
}

type GenreAnalysis struct {
	// Primary is sorted by percentage, descending. Entries below
	// MinPercentage are dropped and at most MaxPrimary are kept.
	Primary   []GenreBreakdown `yaml:"primary" json:"primary"`
	Diversity float64          `yaml:"diversity" json:"diversity"`
	Temporal  TemporalShift    `yaml:"temporal" json:"temporal"`
}

// Trend classifies how recent listening compares to long-term listening.
type Trend string

const (
	Exploring  Trend = "exploring"
	Consistent Trend = "consistent"
	Returning  Trend = "returning"
)

type TemporalShift struct {
	RecentTrend     Trend  `yaml:"recent_trend" json:"recentTrend"`
	ShiftPercentage int    `yaml:"shift_percentage" json:"shiftPercentage"`
	TopGrowingGenre string `yaml:"top_growing_genre,omitempty" json:"topGrowingGenre,omitempty"`
}

// DiversityMetrics are independent scores in [0, 100].
type DiversityMetrics struct {
	ArtistDiversityScore int `yaml:"artist_diversity_score" json:"artistDiversityScore"`
	GenreDiversityScore  int `yaml:"genre_diversity_score" json:"genreDiversityScore"`
	DiscoveryScore       int `yaml:"discovery_score" json:"discoveryScore"`
	LoyaltyIndex         int `yaml:"loyalty_index" json:"loyaltyIndex"`
	TopArtistDependency  int `yaml:"top_artist_dependency" json:"topArtistDependency"`
}
