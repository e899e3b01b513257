package domain

import "strings"

// ResourceType names a terminal-visible resource family. Every structural
// mutation to a resource family must be followed by exactly one reference
// version bump for the owning tenant so terminals can detect staleness.
type ResourceType string

const (
	ResourceNodes           ResourceType = "NODES"
	ResourceProducts        ResourceType = "PRODUCTS"
	ResourceSelectors       ResourceType = "SELECTORS"
	ResourceAssets          ResourceType = "ASSETS"
	ResourceTags            ResourceType = "TAGS"
	ResourceBusinessPeriods ResourceType = "BUSINESS_PERIODS"
	ResourceCurrencies      ResourceType = "CURRENCIES"
	ResourceAds             ResourceType = "ADS"
	ResourceLanguages       ResourceType = "LANGUAGES"
	ResourceOrderTypes      ResourceType = "ORDER_TYPES"
	ResourceTranslations    ResourceType = "TRANSLATIONS"
	ResourceStores          ResourceType = "STORES"
	ResourceTerminals       ResourceType = "TERMINALS"
	ResourceSystemTags      ResourceType = "SYSTEM_TAGS"
	ResourceWeightUnits     ResourceType = "WEIGHT_UNITS"
	// ResourceThemes is discriminated per terminal type; callers must bump the
	// discriminator-scoped record or staleness detection silently fails for
	// that terminal type.
	ResourceThemes ResourceType = "THEMES"
)

// ResourceTypes enumerates every known resource family. Tenant bootstrap
// seeds one reference record per entry.
func ResourceTypes() []ResourceType {
	return []ResourceType{
		ResourceNodes,
		ResourceProducts,
		ResourceSelectors,
		ResourceAssets,
		ResourceTags,
		ResourceBusinessPeriods,
		ResourceCurrencies,
		ResourceAds,
		ResourceLanguages,
		ResourceOrderTypes,
		ResourceTranslations,
		ResourceStores,
		ResourceTerminals,
		ResourceSystemTags,
		ResourceWeightUnits,
		ResourceThemes,
	}
}

// NormalizeResourceType coerces arbitrary input into the canonical upper-case
// representation. Unknown values pass through trimmed so forward-compatible
// callers can introduce families ahead of this enum.
func NormalizeResourceType(input string) ResourceType {
	return ResourceType(strings.ToUpper(strings.TrimSpace(input)))
}

// NodeType classifies entries in the navigation tree.
type NodeType string

const (
	// NodeKioskRoot anchors a tenant's primary navigation tree.
	NodeKioskRoot NodeType = "KIOSK_ROOT"
	// NodeKioskPresetsRoot anchors preset collections shown outside the main tree.
	NodeKioskPresetsRoot NodeType = "KIOSK_PRESETS_ROOT"
	// NodeSelector is a category container created alongside a Selector entity.
	NodeSelector NodeType = "SELECTOR"
	// NodeSelectorJoint is the root node anchoring a Selector in the tree.
	NodeSelectorJoint NodeType = "SELECTOR_JOINT"
	// NodeProductJoint is the root node anchoring a Product in the tree.
	NodeProductJoint NodeType = "PRODUCT_JOINT"
	// NodeSelectorNode references another Selector as content. It must never
	// carry children of its own.
	NodeSelectorNode NodeType = "SELECTOR_NODE"
	// NodeProduct places a product leaf inside a selector subtree.
	NodeProduct NodeType = "PRODUCT"
)

// Valid reports whether the node type is one of the known classifications.
func (t NodeType) Valid() bool {
	switch t {
	case NodeKioskRoot, NodeKioskPresetsRoot, NodeSelector, NodeSelectorJoint,
		NodeProductJoint, NodeSelectorNode, NodeProduct:
		return true
	default:
		return false
	}
}

// AllowsChildren reports whether nodes of this type may hold child nodes.
func (t NodeType) AllowsChildren() bool {
	return t != NodeSelectorNode
}
