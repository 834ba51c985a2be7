package insect

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Field type tags understood by the schema builder. Arrays are always
// arrays of strings.
const (
	typeString  = "string"
	typeBoolean = "boolean"
	typeInteger = "integer"
	typeArray   = "array"
)

type schemaField struct {
	Name string
	Type string
	Desc string
}

// fields is the single source of truth for the answer shape. Every entry
// becomes a required schema property; the model expresses "unknown" by
// returning null or an empty value, never by omitting the key.
var fields = []schemaField{
	{"is_insect", typeBoolean, "Indicates if the organism in the image is an insect."},
	{"common_name", typeString, "The common name of the insect."},
	{"scientific_name", typeString, "The scientific (Latin) name of the insect."},
	{"alternative_names", typeArray, "List of alternative names or aliases for the insect."},
	{"url_wikipedia", typeString, "A URL to the Wikipedia page of the insect."},
	{"domain", typeString, "The biological domain of the insect (e.g., Eukaryota)."},
	{"kingdom", typeString, "The biological kingdom of the insect (e.g., Animalia)."},
	{"phylum", typeString, "The biological phylum of the insect (e.g., Arthropoda)."},
	{"class", typeString, "The biological class of the insect (e.g., Insecta)."},
	{"order", typeString, "The biological order of the insect (e.g., Coleoptera)."},
	{"family", typeString, "The biological family of the insect."},
	{"genus", typeString, "The biological genus of the insect."},
	{"species", typeString, "The biological species in the format Genus species (e.g., Apis mellifera)."},
	{"geographic_range", typeString, "The geographic range where the insect is found (continents, countries, regions)."},
	{"habitat_type", typeString, "The type of habitat where the insect lives (forest, desert, freshwater, urban, etc.)."},
	{"seasonal_appearance", typeString, "The months or seasons when the insect is active."},
	{"size", typeString, "The typical size of the insect (e.g., length or wingspan)."},
	{"colors", typeArray, "List of colors commonly found on the insect."},
	{"has_wings", typeBoolean, "Indicates if the insect has wings."},
	{"leg_count", typeInteger, "Number of legs the insect has."},
	{"distinctive_markings", typeString, "Distinctive markings or features of the insect."},
	{"diet", typeString, "The typical diet of the insect."},
	{"activity_time", typeString, "The time of day the insect is most active (e.g., diurnal, nocturnal)."},
	{"lifespan", typeString, "The typical lifespan of the insect."},
	{"predators", typeArray, "List of known predators of the insect."},
	{"defense_mechanisms", typeArray, "List of defense mechanisms used by the insect."},
	{"role_in_ecosystem", typeString, "The insect's role in its ecosystem (e.g., pollinator, decomposer)."},
	{"interesting_facts", typeArray, "A collection of interesting facts about the insect."},
	{"similar_species", typeArray, "List of species similar to this insect."},
	{"conservation_status", typeString, "The conservation status of the insect (e.g., endangered, least concern)."},
	{"population_trend", typeString, "Population trend of the insect (e.g., increasing, stable, declining)."},
	{"threats", typeArray, "Threats to the insect's population (e.g., habitat loss, pesticides)."},
	{"pest_status", typeString, "Pest status of the insect (e.g., major agricultural pest, none)."},
	{"beneficial_status", typeString, "Beneficial status of the insect (e.g., pollinator, natural enemy of pests)."},
	{"venomous", typeBoolean, "Indicates if the insect is venomous (sting or bite harmful to humans)."},
	{"toxic_to_humans", typeBoolean, "Indicates if the insect is toxic to humans on ingestion or contact."},
}

// SchemaName is the json_schema name sent to the model.
const SchemaName = "insect_info"

var (
	responseFormat = buildResponseFormat()
	schemaJSON     = mustMarshalSchema()
)

// ResponseFormat returns the response_format object attached to every
// identification request. Built once at init; callers must not mutate it.
func ResponseFormat() map[string]any { return responseFormat }

// SchemaJSON is the bare schema rendered as JSON text, for engines that
// embed the schema in the prompt instead of a response_format parameter.
func SchemaJSON() string { return schemaJSON }

// Fields returns the schema field table. Exposed for the start-up
// consistency check and for tests that need to synthesize valid answers.
func Fields() []schemaField { return fields }

func buildResponseFormat() map[string]any {
	properties := make(map[string]any, len(fields))
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		p := map[string]any{
			"type":        f.Type,
			"description": f.Desc,
		}
		if f.Type == typeArray {
			p["items"] = map[string]any{"type": "string"}
		}
		properties[f.Name] = p
		required = append(required, f.Name)
	}
	return map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   SchemaName,
			"strict": true,
			"schema": map[string]any{
				"type":                 "object",
				"properties":           properties,
				"required":             required,
				"additionalProperties": false,
			},
		},
	}
}

func mustMarshalSchema() string {
	b, err := json.Marshal(responseFormat["json_schema"].(map[string]any)["schema"])
	if err != nil {
		panic(err)
	}
	return string(b)
}

// VerifySchema checks that the schema field table and the Insect struct
// declare exactly the same field set. Run once at start-up; a mismatch
// means the two drifted apart and every answer would fail validation.
func VerifySchema() error {
	tags := make(map[string]bool)
	t := reflect.TypeOf(Insect{})
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			tags[name] = true
		}
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			return fmt.Errorf("schema: duplicate field %q", f.Name)
		}
		seen[f.Name] = true
		if !tags[f.Name] {
			return fmt.Errorf("schema: field %q has no matching Insect struct field", f.Name)
		}
	}
	for name := range tags {
		if !seen[name] {
			return fmt.Errorf("schema: Insect field %q missing from schema", name)
		}
	}
	return nil
}
