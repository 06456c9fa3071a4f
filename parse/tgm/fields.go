package tgm

// Section names recognised by the decoder.
const (
	SectionNode     = "Node"
	SectionAnalysis = "QuasiStaticAnalysis"
	SectionRealtime = "Realtime"
	SectionLookup   = "LookupData"
)

// ActionKind tags how a directive's value is decoded and stored.
type ActionKind uint8

const (
	// ActionScalar parses the value and overwrites the field.
	ActionScalar ActionKind = iota + 1
	// ActionAppend parses the value and appends it to a list.
	ActionAppend
	// ActionVector parses a (a,b,c) triple and overwrites the field.
	ActionVector
	// ActionTuple parses a fixed-arity tuple and attaches it to the current
	// node or ply.
	ActionTuple
	// ActionKeyedPair parses (k,v) and sets k -> v in a map.
	ActionKeyedPair
)

func (k ActionKind) String() string {
	switch k {
	case ActionScalar:
		return "scalar"
	case ActionAppend:
		return "append"
	case ActionVector:
		return "vector"
	case ActionTuple:
		return "tuple"
	case ActionKeyedPair:
		return "keyed-pair"
	default:
		return "unknown"
	}
}

type fieldKey struct {
	section string
	key     string
}

type fieldAction struct {
	kind  ActionKind
	apply func(d *decoder, raw string) error
}

func store[T any](kind ActionKind, conv func(string) (T, error), field func(*decoder) *T) fieldAction {
	return fieldAction{kind: kind, apply: func(d *decoder, raw string) error {
		v, err := conv(raw)
		if err != nil {
			return err
		}
		*field(d) = v
		return nil
	}}
}

func scalar[T any](conv func(string) (T, error), field func(*decoder) *T) fieldAction {
	return store(ActionScalar, conv, field)
}

func vector[T any](conv func(string) (T, error), field func(*decoder) *T) fieldAction {
	return store(ActionVector, conv, field)
}

func appendTo[T any](conv func(string) (T, error), field func(*decoder) *[]T) fieldAction {
	return fieldAction{kind: ActionAppend, apply: func(d *decoder, raw string) error {
		v, err := conv(raw)
		if err != nil {
			return err
		}
		list := field(d)
		*list = append(*list, v)
		return nil
	}}
}

func materialTo(field func(*decoder) *[]Material) fieldAction {
	return fieldAction{kind: ActionTuple, apply: func(d *decoder, raw string) error {
		m, err := parseMaterial(raw)
		if err != nil {
			return err
		}
		list := field(d)
		*list = append(*list, m)
		return nil
	}}
}

// fieldTable maps every recognised (section, key) to its decode-and-store
// action. Anything missing is ignored.
var fieldTable = map[fieldKey]fieldAction{
	// [QuasiStaticAnalysis]
	{SectionAnalysis, "NumLayers"}:            scalar(parseInt, func(d *decoder) *int { return &d.model.analysis.NumLayers }),
	{SectionAnalysis, "NumSections"}:          scalar(parseInt, func(d *decoder) *int { return &d.model.analysis.NumSections }),
	{SectionAnalysis, "RimVolume"}:            scalar(parseFloat, func(d *decoder) *float64 { return &d.model.analysis.RimVolume }),
	{SectionAnalysis, "RealtimeCamberLimit"}:  scalar(parseInt, func(d *decoder) *int { return &d.model.analysis.RealtimeCamberLimit }),
	{SectionAnalysis, "GaugePressure"}:        appendTo(parseInt, func(d *decoder) *[]int { return &d.model.analysis.GaugePressures }),
	{SectionAnalysis, "CarcassTemperature"}:   appendTo(parseFloat, func(d *decoder) *[]float64 { return &d.model.analysis.CarcassTemperatures }),
	{SectionAnalysis, "RotationSquared"}:      appendTo(parseInt, func(d *decoder) *[]int { return &d.model.analysis.RotationSquareds }),
	{SectionAnalysis, "NumNodes"}:             scalar(parseInt, func(d *decoder) *int { return &d.model.analysis.NumNodes }),
	{SectionAnalysis, "VolumeLoad"}:           scalar(parseInt, func(d *decoder) *int { return &d.model.analysis.VolumeLoad }),
	{SectionAnalysis, "LoadCamber"}:           scalar(parseInt, func(d *decoder) *int { return &d.model.analysis.LoadCamber }),
	{SectionAnalysis, "LoadInclination"}:      scalar(parseInt, func(d *decoder) *int { return &d.model.analysis.LoadInclination }),
	{SectionAnalysis, "LoadDeflection"}:       scalar(parseInt, func(d *decoder) *int { return &d.model.analysis.LoadDeflection }),
	{SectionAnalysis, "TotalMass"}:            scalar(parseFloat, func(d *decoder) *float64 { return &d.model.analysis.TotalMass }),
	{SectionAnalysis, "TotalInertiaStandard"}: vector(parseVector3d, func(d *decoder) *Vector3d { return &d.model.analysis.TotalInertiaStandard }),
	{SectionAnalysis, "RingMass"}:             scalar(parseFloat, func(d *decoder) *float64 { return &d.model.analysis.RingMass }),
	{SectionAnalysis, "RingInertiaStandard"}:  vector(parseVector3d, func(d *decoder) *Vector3d { return &d.model.analysis.RingInertiaStandard }),

	// [Node]
	{SectionNode, "Geometry"}:                     vector(parseVector3, func(d *decoder) *Vector3 { return &d.node.Geometry }),
	{SectionNode, "BulkMaterial"}:                 materialTo(func(d *decoder) *[]Material { return &d.node.BulkMaterials }),
	{SectionNode, "AnisoCarcassConductivityMult"}: vector(parseVector3, func(d *decoder) *Vector3 { return &d.node.AnisoCarcassConductivityMult }),
	{SectionNode, "TreadDepth"}:                   scalar(parseFloat, func(d *decoder) *float64 { return &d.node.TreadDepth }),
	{SectionNode, "TreadMaterial"}:                materialTo(func(d *decoder) *[]Material { return &d.node.TreadMaterials }),
	{SectionNode, "RingAndRim"}:                   scalar(parsePair, func(d *decoder) *[2]float64 { return &d.node.RingAndRim }),
	{SectionNode, "PlyParams"}:                    {kind: ActionTuple, apply: (*decoder).startPly},
	{SectionNode, "PlyMaterial"}:                  {kind: ActionTuple, apply: (*decoder).attachPlyMaterial},

	// [Realtime]
	{SectionRealtime, "StaticBaseCoefficient"}:                   scalar(parseFloat, func(d *decoder) *float64 { return &d.model.runtime.StaticBaseCoefficient }),
	{SectionRealtime, "SlidingBaseCoefficient"}:                  scalar(parseFloat, func(d *decoder) *float64 { return &d.model.runtime.SlidingBaseCoefficient }),
	{SectionRealtime, "TemporaryBristleSpring"}:                  scalar(parseFloatList, func(d *decoder) *[]float64 { return &d.model.runtime.TemporaryBristleSpring }),
	{SectionRealtime, "TemporaryBristleDamper"}:                  scalar(parseFloatList, func(d *decoder) *[]float64 { return &d.model.runtime.TemporaryBristleDamper }),
	{SectionRealtime, "MarbleEffectOnEffectiveLoad"}:             scalar(parseFloat, func(d *decoder) *float64 { return &d.model.runtime.MarbleEffectOnEffectiveLoad }),
	{SectionRealtime, "TerrainWeightOnContactTemperature"}:       scalar(parseFloat, func(d *decoder) *float64 { return &d.model.runtime.TerrainWeightOnContactTemperature }),
	{SectionRealtime, "WLFParameters"}:                           scalar(parseFloatList, func(d *decoder) *[]float64 { return &d.model.runtime.WLFParameters }),
	{SectionRealtime, "StaticRoughnessEffect"}:                   scalar(parseFloat, func(d *decoder) *float64 { return &d.model.runtime.StaticRoughnessEffect }),
	{SectionRealtime, "GrooveEffects"}:                           scalar(parseFloatList, func(d *decoder) *[]float64 { return &d.model.runtime.GrooveEffects }),
	{SectionRealtime, "DampnessEffects"}:                         scalar(parseFloatList, func(d *decoder) *[]float64 { return &d.model.runtime.DampnessEffects }),
	{SectionRealtime, "StaticCurve"}:                             scalar(parseFloatList, func(d *decoder) *[]float64 { return &d.model.runtime.StaticCurve }),
	{SectionRealtime, "SlidingAdhesionCurve"}:                    scalar(parseFloatList, func(d *decoder) *[]float64 { return &d.model.runtime.SlidingAdhesionCurve }),
	{SectionRealtime, "SlidingMicroDeformationCurve"}:            scalar(parseFloatList, func(d *decoder) *[]float64 { return &d.model.runtime.SlidingMicroDeformationCurve }),
	{SectionRealtime, "SlidingMacroDeformationCurve"}:            scalar(parseFloatList, func(d *decoder) *[]float64 { return &d.model.runtime.SlidingMacroDeformationCurve }),
	{SectionRealtime, "RubberPressureSensitivityPower"}:          scalar(parseFloatList, func(d *decoder) *[]float64 { return &d.model.runtime.RubberPressureSensitivityPower }),
	{SectionRealtime, "SizeMultiplier"}:                          scalar(parseFloatList, func(d *decoder) *[]float64 { return &d.model.runtime.SizeMultiplier }),
	{SectionRealtime, "ThermalDepthAtSurface"}:                   scalar(parseFloat, func(d *decoder) *float64 { return &d.model.runtime.ThermalDepthAtSurface }),
	{SectionRealtime, "ThermalDepthBelowSurface"}:                scalar(parseFloat, func(d *decoder) *float64 { return &d.model.runtime.ThermalDepthBelowSurface }),
	{SectionRealtime, "BristleLength"}:                           scalar(parseFloat, func(d *decoder) *float64 { return &d.model.runtime.BristleLength }),
	{SectionRealtime, "InternalGasHeatTransfer"}:                 scalar(parseFloatList, func(d *decoder) *[]float64 { return &d.model.runtime.InternalGasHeatTransfer }),
	{SectionRealtime, "ExternalGasHeatTransfer"}:                 scalar(parseFloatList, func(d *decoder) *[]float64 { return &d.model.runtime.ExternalGasHeatTransfer }),
	{SectionRealtime, "GroundContactConductance"}:                scalar(parseFloatList, func(d *decoder) *[]float64 { return &d.model.runtime.GroundContactConductance }),
	{SectionRealtime, "TireRadiationEmissivity"}:                 scalar(parseFloat, func(d *decoder) *float64 { return &d.model.runtime.TireRadiationEmissivity }),
	{SectionRealtime, "InternalGasSpecificHeatAtConstantVolume"}: {kind: ActionKeyedPair, apply: setSpecificHeat},
	{SectionRealtime, "TemporaryAbrasion"}:                       scalar(parseFloat, func(d *decoder) *float64 { return &d.model.runtime.TemporaryAbrasion }),

	// [LookupData]
	{SectionLookup, "Version"}:  scalar(parseString, func(d *decoder) *string { return &d.model.lookup.Version }),
	{SectionLookup, "Checksum"}: scalar(parseInt, func(d *decoder) *int { return &d.model.lookup.Checksum }),
	{SectionLookup, "Bin"}:      appendTo(parseString, func(d *decoder) *[]string { return &d.model.lookup.Bins }),
}

func setSpecificHeat(d *decoder, raw string) error {
	k, v, err := parseKeyedPair(raw)
	if err != nil {
		return err
	}
	d.model.runtime.InternalGasSpecificHeatAtConstantVolume[k] = v
	return nil
}

// FieldKind reports how a (section, key) directive is stored, and whether it
// is recognised at all.
func FieldKind(section, key string) (ActionKind, bool) {
	a, ok := fieldTable[fieldKey{section, key}]
	if !ok {
		return 0, false
	}
	return a.kind, true
}
