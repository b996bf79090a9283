package matchapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Number decodes a JSON number, a numeric string or null. Upstream payloads
// are not consistent about which one they send.
type Number struct {
	Value float64
	Valid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*n = Number{}
			return nil
		}
		*n = Number{Value: f, Valid: true}
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		*n = Number{}
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		*n = Number{}
		return nil
	}
	*n = Number{Value: f, Valid: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns nil for an absent or zero value. Zero is treated as missing
// for every enrichment attribute.
func (n Number) Ptr() *float64 {
	if !n.Valid || n.Value == 0 {
		return nil
	}
	v := n.Value
	return &v
}

type BestMatchRequest struct {
	InputItems          []string `json:"input_items"`
	IncludeProductData  bool     `json:"include_product_data"`
	IncludeMaterialData bool     `json:"include_material_data"`
}

type BestMatchResponse struct {
	Results map[string]json.RawMessage `json:"results"`
}

// MatchResult is the per-query entry of a best-match response.
type MatchResult struct {
	BestProduct    Product        `json:"best_product"`
	BestMaterial   Material       `json:"best_material"`
	Classification Classification `json:"classification"`
	QuantityInfo   *QuantityInfo  `json:"quantity_info"`

	// Raw is the undecoded entry, kept for auditing.
	Raw json.RawMessage `json:"-"`
}

type Product struct {
	ProductName        string      `json:"product_name"`
	ProductCompanyName string      `json:"product_company_name"`
	ProductMatchScore  Number      `json:"product_match_score"`
	ProductURL         string      `json:"product_url"`
	ProductData        ProductData `json:"product_data"`
}

type ProductData struct {
	Density       Number        `json:"density"`
	LinearDensity Number        `json:"linear_density"`
	MaterialFacts MaterialFacts `json:"material_facts"`
}

type MaterialFacts struct {
	GlobalWarmingPotentialFossil GWP                      `json:"global_warming_potential_fossil"`
	DeclaredUnit                 string                   `json:"declared_unit"`
	ScalingFactors               map[string]ScalingFactor `json:"scaling_factors"`
	DataSource                   string                   `json:"data_source"`
	MassPerDeclaredUnit          Number                   `json:"mass_per_declared_unit"`
}

type GWP struct {
	A1A2A3 Number `json:"A1A2A3"`
}

type ScalingFactor struct {
	Value Number `json:"value"`
}

// ScalingFactorValues flattens the per-unit scaling factors, dropping
// entries without a numeric value. Keys keep their upstream spelling.
func (m MaterialFacts) ScalingFactorValues() map[string]float64 {
	out := make(map[string]float64, len(m.ScalingFactors))
	for unit, sf := range m.ScalingFactors {
		if sf.Value.Valid {
			out[unit] = sf.Value.Value
		}
	}
	return out
}

type Material struct {
	MaterialName       string       `json:"material_name"`
	MaterialDataSource string       `json:"material_data_source"`
	MaterialMatchScore Number       `json:"material_match_score"`
	MaterialData       MaterialData `json:"material_data"`
}

type MaterialData struct {
	Thickness   Number `json:"thickness"`
	LengthUnits string `json:"length_units"`
}

type Classification struct {
	MaterialType string `json:"material_type"`
}

type QuantityInfo struct {
	Package     PackageInfo `json:"package"`
	ItemDetails ItemDetails `json:"item_details"`
}

type PackageInfo struct {
	Type      string `json:"type"`
	ItemCount Number `json:"item_count"`
}

type ItemDetails struct {
	BaseUnit    string `json:"base_unit"`
	Length      Number `json:"length"`
	Width       Number `json:"width"`
	Thickness   Number `json:"thickness"`
	LengthUnits string `json:"length_units"`
	Area        Number `json:"area"`
	AreaUnits   string `json:"area_units"`
}

type TokenPair struct {
	APIToken     string `json:"api_token"`
	RefreshToken string `json:"refresh_token"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}
