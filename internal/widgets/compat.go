package widgets

import (
	"github.com/talentview/recruit-backend/internal/models"
)

// CompatibleWidgetTypes returns the registry entries whose expected shape is
// among the asset's declared output shapes, in registry order. Both the
// manual add-widget flow and the AI's create-widget tool must pick from this
// set, which is what keeps every persisted widget's type/asset pairing valid
// at construction.
func CompatibleWidgetTypes(asset *models.DataAsset) []Entry {
	if asset == nil {
		return nil
	}
	out := make([]Entry, 0, len(registry))
	for _, e := range registry {
		if asset.SupportsShape(e.ExpectedShape) {
			out = append(out, e)
		}
	}
	return out
}
