package normalize

import "github.com/fuelgrid-cloud/pumproom/internal/domain/entity"

// valueKind selects the coercion and default applied to a canonical field.
type valueKind int

const (
	kindString valueKind = iota
	kindNumber
	kindBool
	kindTime
	kindCoords
)

// rule resolves one canonical field from an ordered list of historical alias
// keys, most-canonical first. When an alias holds a nested object, subField
// names the property to extract from it.
type rule struct {
	key      string
	kind     valueKind
	aliases  []string
	subField string
}

// Alias tables carry every key variant observed in production exports. Legacy
// spreadsheet imports wrote capitalized keys with spaces ("Customer Name");
// the mobile client wrote camelCase.
var userRules = []rule{
	{key: "name", kind: kindString, aliases: []string{"name", "displayName", "fullName", "Full Name"}},
	{key: "email", kind: kindString, aliases: []string{"email", "Email", "mail"}},
	{key: "phone", kind: kindString, aliases: []string{"phone", "mobile", "Phone Number", "contactDetails"}, subField: "phone"},
	{key: "role", kind: kindString, aliases: []string{"role", "userRole", "Role"}},
	{key: "teamId", kind: kindString, aliases: []string{"teamId", "team", "Team"}},
	{key: "active", kind: kindBool, aliases: []string{"active", "isActive"}},
	{key: "createdAt", kind: kindTime, aliases: []string{"createdAt", "created_at", "Created At"}},
}

var teamRules = []rule{
	{key: "name", kind: kindString, aliases: []string{"name", "teamName", "Team Name"}},
	{key: "description", kind: kindString, aliases: []string{"description", "desc", "Description"}},
	{key: "district", kind: kindString, aliases: []string{"district", "District", "region"}},
	{key: "leadId", kind: kindString, aliases: []string{"leadId", "teamLead", "lead"}},
	{key: "memberCount", kind: kindNumber, aliases: []string{"memberCount", "members", "Member Count"}},
	{key: "createdAt", kind: kindTime, aliases: []string{"createdAt", "created_at", "Created At"}},
}

var pumpRules = []rule{
	{key: "name", kind: kindString, aliases: []string{"name", "pumpName", "customerName", "Customer Name"}},
	{key: "brand", kind: kindString, aliases: []string{"brand", "company", "Company"}},
	{key: "address", kind: kindString, aliases: []string{"address", "Address", "addr"}},
	{key: "city", kind: kindString, aliases: []string{"city", "City"}},
	{key: "district", kind: kindString, aliases: []string{"district", "District"}},
	{key: "contact", kind: kindString, aliases: []string{"contactDetails", "Contact details", "phone"}, subField: "phone"},
	{key: "status", kind: kindString, aliases: []string{"status", "Status"}},
	{key: "order", kind: kindNumber, aliases: []string{"order", "sortOrder", "Order"}},
	{key: "location", kind: kindCoords, aliases: []string{"location"}},
	{key: "createdAt", kind: kindTime, aliases: []string{"createdAt", "created_at", "Created At"}},
}

var requestRules = []rule{
	{key: "pumpName", kind: kindString, aliases: []string{"pumpName", "name", "customerName", "Customer Name"}},
	{key: "brand", kind: kindString, aliases: []string{"brand", "company", "Company"}},
	{key: "address", kind: kindString, aliases: []string{"address", "Address"}},
	{key: "city", kind: kindString, aliases: []string{"city", "City"}},
	{key: "district", kind: kindString, aliases: []string{"district", "District"}},
	{key: "contact", kind: kindString, aliases: []string{"contactDetails", "Contact details", "phone"}, subField: "phone"},
	{key: "status", kind: kindString, aliases: []string{"status", "Status"}},
	{key: "requestedBy", kind: kindString, aliases: []string{"requestedBy", "userName", "User Name", "submittedBy"}},
	{key: "teamName", kind: kindString, aliases: []string{"teamName", "team", "Team Name"}},
	{key: "reason", kind: kindString, aliases: []string{"reason", "notes", "Notes"}},
	{key: "location", kind: kindCoords, aliases: []string{"location"}},
	{key: "createdAt", kind: kindTime, aliases: []string{"createdAt", "created_at", "Created At", "submittedAt"}},
}

func rulesFor(kind entity.Kind) []rule {
	switch kind {
	case entity.User:
		return userRules
	case entity.Team:
		return teamRules
	case entity.Pump:
		return pumpRules
	case entity.Request:
		return requestRules
	}
	return nil
}

// SearchFields returns the canonical fields matched by free-text search for
// the given kind.
func SearchFields(kind entity.Kind) []string {
	switch kind {
	case entity.User:
		return []string{"name", "email", "phone", "role"}
	case entity.Team:
		return []string{"name", "description", "district"}
	case entity.Pump:
		return []string{"name", "brand", "address", "city"}
	case entity.Request:
		return []string{"pumpName", "status", "requestedBy", "teamName"}
	}
	return nil
}

// StatusField returns the canonical field holding the tab/status dimension,
// or "" when the kind has none.
func StatusField(kind entity.Kind) string {
	switch kind {
	case entity.Pump, entity.Request:
		return "status"
	}
	return ""
}

// TimeField returns the canonical field date-range filters apply to.
func TimeField(entity.Kind) string { return "createdAt" }
