package mcpserver

import (
	"encoding/json"
	"fmt"

	"scenecards/internal/domain"
)

// parseJSON parses a JSON string into the target type.
func parseJSON(data string, target any) error {
	return json.Unmarshal([]byte(data), target)
}

// numberArg reads a required numeric argument.
func numberArg(args map[string]any, key string) (float64, error) {
	switch v := args[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case nil:
		return 0, fmt.Errorf("%s is required", key)
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", key, v)
	}
}

// indexArg reads a required non-negative integer argument.
func indexArg(args map[string]any, key string) (int, error) {
	v, err := numberArg(args, key)
	if err != nil {
		return 0, err
	}
	if v < 0 || v != float64(int(v)) {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %v", key, v)
	}
	return int(v), nil
}

// pointArgs reads the x1/y1/x2/y2 corner arguments of a shape.
func pointArgs(args map[string]any) (domain.Point, domain.Point, error) {
	var vals [4]float64
	for i, key := range []string{"x1", "y1", "x2", "y2"} {
		v, err := numberArg(args, key)
		if err != nil {
			return domain.Point{}, domain.Point{}, err
		}
		vals[i] = v
	}
	return domain.Point{X: vals[0], Y: vals[1]}, domain.Point{X: vals[2], Y: vals[3]}, nil
}

// parsePath decodes a JSON array of [x, y] pairs.
func parsePath(data string) ([]domain.Point, error) {
	var pairs [][2]float64
	if err := parseJSON(data, &pairs); err != nil {
		return nil, fmt.Errorf("points must be a JSON array of [x, y] pairs: %w", err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("points must not be empty")
	}
	points := make([]domain.Point, len(pairs))
	for i, p := range pairs {
		points[i] = domain.Point{X: p[0], Y: p[1]}
	}
	return points, nil
}
