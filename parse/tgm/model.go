package tgm

import (
	"encoding/json"
	"maps"
	"slices"
)

// =========================
// Model Definitions
// =========================

// Vector3 holds geometry-style triples. Components are narrowed to float32.
type Vector3 struct {
	X float32 `yaml:"x" json:"x"`
	Y float32 `yaml:"y" json:"y"`
	Z float32 `yaml:"z" json:"z"`
}

// Vector3d is a full-precision triple, used for inertia values.
type Vector3d struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// Material is one row of a temperature-indexed material table.
type Material struct {
	Temperature         float64 `yaml:"temperature" json:"temperature"` // Kelvin
	Density             float64 `yaml:"density" json:"density"`
	YoungsModulus       int64   `yaml:"youngs_modulus" json:"youngs_modulus"`
	PoissonsRatio       float64 `yaml:"poissons_ratio" json:"poissons_ratio"`
	DampingFactor       float64 `yaml:"damping_factor" json:"damping_factor"` // unused by the sim, -1
	SpecificHeat        int     `yaml:"specific_heat" json:"specific_heat"`
	ThermalConductivity float64 `yaml:"thermal_conductivity" json:"thermal_conductivity"`
}

// PlyParam describes a ply's fibre angle, thickness and node connection.
type PlyParam struct {
	// Angle relative to the circumferential tread centre line, in degrees.
	Angle     int     `yaml:"angle" json:"angle"`
	Thickness float64 `yaml:"thickness" json:"thickness"`
	// Connect is 1 (previous node), 2 (next node) or 3 (both).
	Connect int `yaml:"connect" json:"connect"`
}

// Ply is a PlyParams line plus the PlyMaterial lines that follow it.
type Ply struct {
	Params    PlyParam   `yaml:"params" json:"params"`
	Materials []Material `yaml:"materials" json:"materials"`
}

// Node is one physical tire layer.
type Node struct {
	Geometry                     Vector3    `yaml:"geometry" json:"geometry"`
	BulkMaterials                []Material `yaml:"bulk_materials" json:"bulk_materials"`
	AnisoCarcassConductivityMult Vector3    `yaml:"aniso_carcass_conductivity_mult" json:"aniso_carcass_conductivity_mult"`
	TreadDepth                   float64    `yaml:"tread_depth" json:"tread_depth"`
	TreadMaterials               []Material `yaml:"tread_materials" json:"tread_materials"`
	// RingAndRim is (ring share, rim spring rate).
	RingAndRim [2]float64 `yaml:"ring_and_rim" json:"ring_and_rim"`
	Plies      []Ply      `yaml:"plies" json:"plies"`
}

func (n Node) clone() Node {
	n.BulkMaterials = slices.Clone(n.BulkMaterials)
	n.TreadMaterials = slices.Clone(n.TreadMaterials)
	plies := make([]Ply, len(n.Plies))
	for i, p := range n.Plies {
		plies[i] = Ply{Params: p.Params, Materials: slices.Clone(p.Materials)}
	}
	if n.Plies == nil {
		plies = nil
	}
	n.Plies = plies
	return n
}

// AnalysisConfig is the [QuasiStaticAnalysis] section.
type AnalysisConfig struct {
	NumLayers            int       `yaml:"num_layers" json:"num_layers"`
	NumSections          int       `yaml:"num_sections" json:"num_sections"`
	RimVolume            float64   `yaml:"rim_volume" json:"rim_volume"`
	RealtimeCamberLimit  int       `yaml:"realtime_camber_limit" json:"realtime_camber_limit"`
	GaugePressures       []int     `yaml:"gauge_pressures" json:"gauge_pressures"`
	CarcassTemperatures  []float64 `yaml:"carcass_temperatures" json:"carcass_temperatures"`
	RotationSquareds     []int     `yaml:"rotation_squareds" json:"rotation_squareds"`
	NumNodes             int       `yaml:"num_nodes" json:"num_nodes"`
	VolumeLoad           int       `yaml:"volume_load" json:"volume_load"`
	LoadCamber           int       `yaml:"load_camber" json:"load_camber"`
	LoadInclination      int       `yaml:"load_inclination" json:"load_inclination"`
	LoadDeflection       int       `yaml:"load_deflection" json:"load_deflection"`
	TotalMass            float64   `yaml:"total_mass" json:"total_mass"`
	TotalInertiaStandard Vector3d  `yaml:"total_inertia_standard" json:"total_inertia_standard"`
	RingMass             float64   `yaml:"ring_mass" json:"ring_mass"`
	RingInertiaStandard  Vector3d  `yaml:"ring_inertia_standard" json:"ring_inertia_standard"`
}

func (a AnalysisConfig) clone() AnalysisConfig {
	a.GaugePressures = slices.Clone(a.GaugePressures)
	a.CarcassTemperatures = slices.Clone(a.CarcassTemperatures)
	a.RotationSquareds = slices.Clone(a.RotationSquareds)
	return a
}

// RuntimeConfig is the [Realtime] section. These values only affect the
// realtime brush model.
type RuntimeConfig struct {
	StaticBaseCoefficient             float64   `yaml:"static_base_coefficient" json:"static_base_coefficient"`
	SlidingBaseCoefficient            float64   `yaml:"sliding_base_coefficient" json:"sliding_base_coefficient"`
	TemporaryBristleSpring            []float64 `yaml:"temporary_bristle_spring" json:"temporary_bristle_spring"` // lat, vert, long
	TemporaryBristleDamper            []float64 `yaml:"temporary_bristle_damper" json:"temporary_bristle_damper"`
	MarbleEffectOnEffectiveLoad       float64   `yaml:"marble_effect_on_effective_load" json:"marble_effect_on_effective_load"`
	TerrainWeightOnContactTemperature float64   `yaml:"terrain_weight_on_contact_temperature" json:"terrain_weight_on_contact_temperature"`
	WLFParameters                     []float64 `yaml:"wlf_parameters" json:"wlf_parameters"`
	StaticRoughnessEffect             float64   `yaml:"static_roughness_effect" json:"static_roughness_effect"`
	GrooveEffects                     []float64 `yaml:"groove_effects" json:"groove_effects"`
	DampnessEffects                   []float64 `yaml:"dampness_effects" json:"dampness_effects"`
	StaticCurve                       []float64 `yaml:"static_curve" json:"static_curve"`
	SlidingAdhesionCurve              []float64 `yaml:"sliding_adhesion_curve" json:"sliding_adhesion_curve"`
	SlidingMicroDeformationCurve      []float64 `yaml:"sliding_micro_deformation_curve" json:"sliding_micro_deformation_curve"`
	SlidingMacroDeformationCurve      []float64 `yaml:"sliding_macro_deformation_curve" json:"sliding_macro_deformation_curve"`
	RubberPressureSensitivityPower    []float64 `yaml:"rubber_pressure_sensitivity_power" json:"rubber_pressure_sensitivity_power"`
	SizeMultiplier                    []float64 `yaml:"size_multiplier" json:"size_multiplier"`
	ThermalDepthAtSurface             float64   `yaml:"thermal_depth_at_surface" json:"thermal_depth_at_surface"`
	ThermalDepthBelowSurface          float64   `yaml:"thermal_depth_below_surface" json:"thermal_depth_below_surface"`
	BristleLength                     float64   `yaml:"bristle_length" json:"bristle_length"`
	InternalGasHeatTransfer           []float64 `yaml:"internal_gas_heat_transfer" json:"internal_gas_heat_transfer"`
	ExternalGasHeatTransfer           []float64 `yaml:"external_gas_heat_transfer" json:"external_gas_heat_transfer"`
	GroundContactConductance          []float64 `yaml:"ground_contact_conductance" json:"ground_contact_conductance"`
	TireRadiationEmissivity           float64   `yaml:"tire_radiation_emissivity" json:"tire_radiation_emissivity"`
	// InternalGasSpecificHeatAtConstantVolume maps temperature (K) to
	// specific heat at constant volume (J/(kg*K)).
	InternalGasSpecificHeatAtConstantVolume map[int]int `yaml:"internal_gas_specific_heat_at_constant_volume" json:"internal_gas_specific_heat_at_constant_volume"`
	TemporaryAbrasion                       float64     `yaml:"temporary_abrasion" json:"temporary_abrasion"`
}

func (r RuntimeConfig) clone() RuntimeConfig {
	out := r
	for _, f := range []*[]float64{
		&out.TemporaryBristleSpring, &out.TemporaryBristleDamper, &out.WLFParameters,
		&out.GrooveEffects, &out.DampnessEffects, &out.StaticCurve,
		&out.SlidingAdhesionCurve, &out.SlidingMicroDeformationCurve,
		&out.SlidingMacroDeformationCurve, &out.RubberPressureSensitivityPower,
		&out.SizeMultiplier, &out.InternalGasHeatTransfer,
		&out.ExternalGasHeatTransfer, &out.GroundContactConductance,
	} {
		*f = slices.Clone(*f)
	}
	out.InternalGasSpecificHeatAtConstantVolume = maps.Clone(r.InternalGasSpecificHeatAtConstantVolume)
	return out
}

// LookupTable is the [LookupData] section: precomputed bins written by the
// tyre tool.
type LookupTable struct {
	Version  string   `yaml:"version" json:"version"`
	Checksum int      `yaml:"checksum" json:"checksum"`
	Bins     []string `yaml:"bins" json:"bins"`
}

// =========================
// TireModel
// =========================

// TireModel is a decoded TGM file. It is not modified after Parse returns and
// every accessor hands out a copy.
type TireModel struct {
	analysis AnalysisConfig
	nodes    []*Node
	runtime  RuntimeConfig
	lookup   LookupTable
}

func newTireModel() *TireModel {
	return &TireModel{
		runtime: RuntimeConfig{InternalGasSpecificHeatAtConstantVolume: make(map[int]int)},
	}
}

// Analysis returns the [QuasiStaticAnalysis] section.
func (m *TireModel) Analysis() AnalysisConfig { return m.analysis.clone() }

// Runtime returns the [Realtime] section.
func (m *TireModel) Runtime() RuntimeConfig { return m.runtime.clone() }

// Lookup returns the [LookupData] section.
func (m *TireModel) Lookup() LookupTable {
	l := m.lookup
	l.Bins = slices.Clone(l.Bins)
	return l
}

// NumNodes returns how many nodes were decoded.
func (m *TireModel) NumNodes() int { return len(m.nodes) }

// Node returns the i-th node in file order.
func (m *TireModel) Node(i int) (Node, bool) {
	if i < 0 || i >= len(m.nodes) {
		return Node{}, false
	}
	return m.nodes[i].clone(), true
}

// Nodes returns all nodes in file order.
func (m *TireModel) Nodes() []Node {
	out := make([]Node, len(m.nodes))
	for i, n := range m.nodes {
		out[i] = n.clone()
	}
	return out
}

// document is the exported shape used for YAML and JSON rendering.
type document struct {
	QuasiStaticAnalysis AnalysisConfig `yaml:"quasi_static_analysis" json:"quasi_static_analysis"`
	Nodes               []Node         `yaml:"nodes" json:"nodes"`
	Realtime            RuntimeConfig  `yaml:"realtime" json:"realtime"`
	LookupData          LookupTable    `yaml:"lookup_data" json:"lookup_data"`
}

func (m *TireModel) document() document {
	return document{
		QuasiStaticAnalysis: m.Analysis(),
		Nodes:               m.Nodes(),
		Realtime:            m.Runtime(),
		LookupData:          m.Lookup(),
	}
}

// MarshalYAML implements yaml.Marshaler.
func (m *TireModel) MarshalYAML() (any, error) {
	return m.document(), nil
}

// MarshalJSON implements json.Marshaler.
func (m *TireModel) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.document())
}
