package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// TerritoryGDP is one per-country GDP override carried in the blob.
type TerritoryGDP struct {
	Name string `json:"name"`
	GDP  int64  `json:"gdp"`
}

// RelationState is the serialized form of one diplomatic record.
type RelationState struct {
	Score            int   `json:"score"`
	TradeEstablished bool  `json:"tradeEstablished"`
	TradeVolume      int64 `json:"tradeVolume"`
}

// Snapshot is the save blob. Older saves may omit happiness, warWith, the
// resource fields, or relations; Decode fills those with defaults instead of
// failing, so every historical format still loads.
type Snapshot struct {
	CountryName      string                      `json:"countryName"`
	Date             string                      `json:"date"`      // ISO-8601
	LastSaved        string                      `json:"lastSaved"` // ISO-8601
	Treasury         int64                       `json:"treasury"`
	GDP              int64                       `json:"gdp"`
	TerritoriesGDP   []TerritoryGDP              `json:"territoriesGDP"`
	Happiness        int                         `json:"happiness"`
	WarWith          []string                    `json:"warWith"`
	ResourceCapacity map[string]int64            `json:"resourceCapacity"`
	ResourceStock    map[string]map[string]int64 `json:"resourceStock"`
	Relations        map[string]RelationState    `json:"relations,omitempty"`
}

// blobSchema validates structural shape on load. Only the fields every
// historical save format carries are required.
const blobSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["countryName", "date"],
	"properties": {
		"countryName": {"type": "string", "minLength": 1},
		"date": {"type": "string"},
		"lastSaved": {"type": "string"},
		"treasury": {"type": "integer", "minimum": 0},
		"gdp": {"type": "integer", "minimum": 0},
		"territoriesGDP": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "gdp"],
				"properties": {
					"name": {"type": "string"},
					"gdp": {"type": "integer"}
				}
			}
		},
		"happiness": {"type": "integer", "minimum": 0, "maximum": 100},
		"warWith": {"type": "array", "items": {"type": "string"}},
		"resourceCapacity": {
			"type": "object",
			"additionalProperties": {"type": "integer", "minimum": 0}
		},
		"resourceStock": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"additionalProperties": {"type": "integer", "minimum": 0}
			}
		}
	}
}`

var compiledSchema = jsonschema.MustCompileString("save_blob.schema.json", blobSchema)

// Encode serializes a snapshot into the save blob.
func Encode(s *Snapshot) ([]byte, error) {
	blob, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return blob, nil
}

// Decode validates and deserializes a save blob. Missing optional fields are
// defaulted (happiness 100, no wars, empty resource state) rather than
// rejected, which keeps older partial blobs loadable.
func Decode(blob []byte) (*Snapshot, error) {
	var raw any
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if err := compiledSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("decode save: schema: %w", err)
	}

	// Defaults stand in for fields older blobs omit; Unmarshal only
	// overwrites what is present.
	s := &Snapshot{Happiness: 100}
	if err := json.Unmarshal(blob, s); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if s.WarWith == nil {
		s.WarWith = []string{}
	}
	if s.ResourceCapacity == nil {
		s.ResourceCapacity = map[string]int64{}
	}
	if s.ResourceStock == nil {
		s.ResourceStock = map[string]map[string]int64{}
	}
	return s, nil
}
