package helpers

const (
	ItemTypeItem    string = "item"
	ItemTypeVersion string = "version"
)

const (
	APITypeItem    string = "/api/v1/items"
	APITypeVersion string = "/api/v1/version"
)

// ItemTypesToAPIItem maps an item type to the collection URL it lives under
var ItemTypesToAPIItem = map[string]string{
	ItemTypeItem:    APITypeItem,
	ItemTypeVersion: APITypeVersion,
}
