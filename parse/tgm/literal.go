package tgm

import (
	"strconv"
	"strings"
)

// =========================
// Scalar Tokens
// =========================

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, &NumericError{Token: s, Type: "int32", Err: err}
	}
	return int(v), nil
}

func parseInt64(s string) (int64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &NumericError{Token: s, Type: "int64", Err: err}
	}
	return v, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &NumericError{Token: s, Type: "float64", Err: err}
	}
	return v, nil
}

// parseFloat32 narrows to float32 precision on purpose; geometry has always
// been stored that way.
func parseFloat32(s string) (float32, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, &NumericError{Token: s, Type: "float32", Err: err}
	}
	return float32(v), nil
}

func parseString(s string) (string, error) {
	return strings.TrimSpace(s), nil
}

// =========================
// Compound Literals
// =========================

// splitLiteral strips the outer parentheses of "(a, b, c)" and returns the
// trimmed tokens. A bare value yields its own comma-separated tokens.
func splitLiteral(s string) []string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// fixedTokens splits s and checks it has exactly want tokens.
func fixedTokens(what, s string, want int) ([]string, error) {
	toks := splitLiteral(s)
	if len(toks) != want {
		return nil, &ArityError{What: what, Want: want, Got: len(toks)}
	}
	return toks, nil
}

func parseList[T any](s string, conv func(string) (T, error)) ([]T, error) {
	toks := splitLiteral(s)
	out := make([]T, 0, len(toks))
	for _, tok := range toks {
		v, err := conv(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseFloatList(s string) ([]float64, error) {
	return parseList(s, parseFloat)
}

func parseVector3(s string) (Vector3, error) {
	toks, err := fixedTokens("vector", s, 3)
	if err != nil {
		return Vector3{}, err
	}
	var v [3]float32
	for i, tok := range toks {
		if v[i], err = parseFloat32(tok); err != nil {
			return Vector3{}, err
		}
	}
	return Vector3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func parseVector3d(s string) (Vector3d, error) {
	toks, err := fixedTokens("vector", s, 3)
	if err != nil {
		return Vector3d{}, err
	}
	var v [3]float64
	for i, tok := range toks {
		if v[i], err = parseFloat(tok); err != nil {
			return Vector3d{}, err
		}
	}
	return Vector3d{X: v[0], Y: v[1], Z: v[2]}, nil
}

func parsePair(s string) ([2]float64, error) {
	toks, err := fixedTokens("pair", s, 2)
	if err != nil {
		return [2]float64{}, err
	}
	var p [2]float64
	for i, tok := range toks {
		if p[i], err = parseFloat(tok); err != nil {
			return [2]float64{}, err
		}
	}
	return p, nil
}

func parseKeyedPair(s string) (int, int, error) {
	toks, err := fixedTokens("keyed pair", s, 2)
	if err != nil {
		return 0, 0, err
	}
	k, err := parseInt(toks[0])
	if err != nil {
		return 0, 0, err
	}
	v, err := parseInt(toks[1])
	if err != nil {
		return 0, 0, err
	}
	return k, v, nil
}

// parseMaterial decodes (temperature, density, youngs, poisson, damping,
// specific heat, conductivity).
func parseMaterial(s string) (Material, error) {
	toks, err := fixedTokens("material", s, 7)
	if err != nil {
		return Material{}, err
	}
	var m Material
	if m.Temperature, err = parseFloat(toks[0]); err != nil {
		return Material{}, err
	}
	if m.Density, err = parseFloat(toks[1]); err != nil {
		return Material{}, err
	}
	if m.YoungsModulus, err = parseInt64(toks[2]); err != nil {
		return Material{}, err
	}
	if m.PoissonsRatio, err = parseFloat(toks[3]); err != nil {
		return Material{}, err
	}
	if m.DampingFactor, err = parseFloat(toks[4]); err != nil {
		return Material{}, err
	}
	if m.SpecificHeat, err = parseInt(toks[5]); err != nil {
		return Material{}, err
	}
	if m.ThermalConductivity, err = parseFloat(toks[6]); err != nil {
		return Material{}, err
	}
	return m, nil
}

// parsePlyParam decodes (angle, thickness, connect).
func parsePlyParam(s string) (PlyParam, error) {
	toks, err := fixedTokens("ply params", s, 3)
	if err != nil {
		return PlyParam{}, err
	}
	var p PlyParam
	if p.Angle, err = parseInt(toks[0]); err != nil {
		return PlyParam{}, err
	}
	if p.Thickness, err = parseFloat(toks[1]); err != nil {
		return PlyParam{}, err
	}
	if p.Connect, err = parseInt(toks[2]); err != nil {
		return PlyParam{}, err
	}
	return p, nil
}
