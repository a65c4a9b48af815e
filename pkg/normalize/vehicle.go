package normalize

import "strings"

// knownMakes is the fixed manufacturer list tested against vehicle names.
// Longer names come first so "Mercedes-Benz V-Class" does not stop at
// "Mercedes". Unlisted brands degrade to a first-token split, never an
// error.
var knownMakes = []string{
	"Mercedes-Benz",
	"Mercedes",
	"Volkswagen",
	"Toyota",
	"Nissan",
	"Hyundai",
	"Honda",
	"Lexus",
	"Audi",
	"Ford",
	"BMW",
	"Kia",
}

// modelCapacities maps model-name substrings to passenger capacity, checked
// case-insensitively in order; first match wins. Unknown models yield 0.
var modelCapacities = []struct {
	Substr   string
	Capacity int
}{
	{"hiace", 9},
	{"granace", 8},
	{"alphard", 6},
	{"vellfire", 6},
	{"coaster", 26},
	{"camry", 4},
	{"s-class", 3},
	{"e-class", 3},
}

// SplitVehicleName derives make and model from a free-form vehicle name.
func SplitVehicleName(name string) (make, model string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}

	lower := strings.ToLower(name)
	for _, m := range knownMakes {
		prefix := strings.ToLower(m)
		if lower == prefix {
			return m, ""
		}
		if strings.HasPrefix(lower, prefix+" ") {
			return m, strings.TrimSpace(name[len(m):])
		}
	}

	fields := strings.Fields(name)
	if len(fields) == 1 {
		return fields[0], ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// InferCapacity guesses passenger capacity from a vehicle name.
func InferCapacity(name string) int {
	lower := strings.ToLower(name)
	for _, mc := range modelCapacities {
		if strings.Contains(lower, mc.Substr) {
			return mc.Capacity
		}
	}
	return 0
}
