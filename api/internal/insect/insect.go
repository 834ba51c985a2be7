package insect

// Insect is the structured answer the model must produce for one
// identification call. Field names and JSON tags must stay in lockstep
// with the schema field table in schema.go; VerifySchema enforces that
// at start-up.
//
// IsInsect is the only field whose presence is checked at parse time: a
// pointer so that an answer omitting it is distinguishable from an
// explicit false. Every other field may come back null or empty when the
// model cannot determine it.
type Insect struct {
	IsInsect *bool `json:"is_insect"`

	// Identity
	CommonName       string   `json:"common_name"`
	ScientificName   string   `json:"scientific_name"`
	AlternativeNames []string `json:"alternative_names"`
	URLWikipedia     string   `json:"url_wikipedia"`

	// Taxonomy
	Domain  string `json:"domain"`
	Kingdom string `json:"kingdom"`
	Phylum  string `json:"phylum"`
	Class   string `json:"class"`
	Order   string `json:"order"`
	Family  string `json:"family"`
	Genus   string `json:"genus"`
	Species string `json:"species"`

	// Habitat & range
	GeographicRange    string `json:"geographic_range"`
	HabitatType        string `json:"habitat_type"`
	SeasonalAppearance string `json:"seasonal_appearance"`

	// Physical characteristics
	Size                string   `json:"size"`
	Colors              []string `json:"colors"`
	HasWings            *bool    `json:"has_wings"`
	LegCount            int      `json:"leg_count"`
	DistinctiveMarkings string   `json:"distinctive_markings"`

	// Ecology & behaviour
	Diet              string   `json:"diet"`
	ActivityTime      string   `json:"activity_time"`
	Lifespan          string   `json:"lifespan"`
	Predators         []string `json:"predators"`
	DefenseMechanisms []string `json:"defense_mechanisms"`
	RoleInEcosystem   string   `json:"role_in_ecosystem"`
	InterestingFacts  []string `json:"interesting_facts"`
	SimilarSpecies    []string `json:"similar_species"`

	// Conservation & human interaction
	ConservationStatus string   `json:"conservation_status"`
	PopulationTrend    string   `json:"population_trend"`
	Threats            []string `json:"threats"`
	PestStatus         string   `json:"pest_status"`
	BeneficialStatus   string   `json:"beneficial_status"`
	Venomous           *bool    `json:"venomous"`
	ToxicToHumans      *bool    `json:"toxic_to_humans"`
}
