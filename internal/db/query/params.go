package query

// Mode is the listing selected by the request parameters.
type Mode int

const (
	// ModeDefault lists everything in the kind's default order.
	ModeDefault Mode = iota
	// ModeSort orders by one allowed field.
	ModeSort
	// ModeSearch filters on one allowed field.
	ModeSearch
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeSort:
		return "sort"
	case ModeSearch:
		return "search"
	default:
		return "default"
	}
}

// Direction is a sort direction. Only the uppercase forms are valid.
type Direction string

const (
	// Asc sorts ascending.
	Asc Direction = "ASC"
	// Desc sorts descending.
	Desc Direction = "DESC"
)

// Valid reports whether d is ASC or DESC.
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// Request parameter names.
const (
	ParamSearch    = "recherche"
	ParamField     = "champ"
	ParamDirection = "ordre"
	ParamTable     = "table"
	// ParamSort names the order of a search, see Params.Sort.
	ParamSort = "tri"
)

// Params is the normalized listing intent of a request.
type Params struct {
	Mode      Mode
	Field     string
	Direction Direction
	Table     string
	Value     string
	// Sort and Direction order a search when both are set.
	Sort string
}

// Resolve turns query-string pairs into Params.
//
// A present recherche key wins, even when empty. Otherwise a non-empty champ
// with ordre ASC or DESC selects a sort. Anything else is the default listing.
func Resolve(args map[string]string) Params {
	dir := Direction(args[ParamDirection])

	if value, ok := args[ParamSearch]; ok {
		p := Params{
			Mode:  ModeSearch,
			Field: args[ParamField],
			Table: args[ParamTable],
			Value: value,
		}

		if dir.Valid() && args[ParamSort] != "" {
			p.Sort = args[ParamSort]
			p.Direction = dir
		}

		return p
	}

	if field := args[ParamField]; field != "" && dir.Valid() {
		return Params{
			Mode:      ModeSort,
			Field:     field,
			Direction: dir,
			Table:     args[ParamTable],
		}
	}

	return Params{Mode: ModeDefault}
}
