package settlement

// VillageTemplate selects the local street pattern for a village.
type VillageTemplate string

const (
	TemplateLakeside  VillageTemplate = "lakeside"
	TemplateCrossroad VillageTemplate = "crossroad"
	TemplateLinear    VillageTemplate = "linear"
)

// RoadType is the coarse classification of a road.
type RoadType string

const (
	RoadMajor RoadType = "major"
	RoadMinor RoadType = "minor"
	RoadLocal RoadType = "local"
)

// RoadHierarchy is a road's structural rank, distinct from its coarse type.
type RoadHierarchy string

const (
	HierarchyArterial  RoadHierarchy = "arterial"
	HierarchyCollector RoadHierarchy = "collector"
	HierarchyLane      RoadHierarchy = "lane"
	HierarchyPath      RoadHierarchy = "path"
)

// NodeKind classifies road graph nodes.
type NodeKind string

const (
	NodeVillage  NodeKind = "village"
	NodeJunction NodeKind = "junction"
	NodeBridge   NodeKind = "bridge"
)

// Village is an accepted settlement site. Immutable once created; other
// entities reference it only by id so entities from different region
// computations compose by id equality.
type Village struct {
	ID       string          `json:"id"`
	Position Point           `json:"position"`
	Score    float64         `json:"score"` // Suitability in [0,1]
	Radius   float64         `json:"radius"`
	CellX    int             `json:"cellX"`
	CellY    int             `json:"cellY"`
	Template VillageTemplate `json:"template"`
}

// Road is a routed polyline between two villages (regional) or within one
// village (local; FromVillage and ToVillage may be equal).
type Road struct {
	ID          string        `json:"id"`
	Type        RoadType      `json:"type"`
	Hierarchy   RoadHierarchy `json:"hierarchy"`
	Width       float64       `json:"width"`
	Points      []Point       `json:"points"`
	FromVillage string        `json:"fromVillage"`
	ToVillage   string        `json:"toVillage"`
}

// Parcel is a building lot fronting a road.
type Parcel struct {
	ID            string        `json:"id"`
	VillageID     string        `json:"villageId"`
	RoadID        string        `json:"roadId"`
	RoadType      RoadType      `json:"roadType"`
	RoadHierarchy RoadHierarchy `json:"roadHierarchy"`
	Position      Point         `json:"position"`
	Width         float64       `json:"width"`
	Depth         float64       `json:"depth"`
	Angle         float64       `json:"angle"`
	Side          int           `json:"side"` // ±1 relative to the road tangent
}

// House is a dwelling placed on a parcel.
type House struct {
	ID        string  `json:"id"`
	Position  Point   `json:"position"`
	Width     float64 `json:"width"`
	Depth     float64 `json:"depth"`
	Angle     float64 `json:"angle"`
	RoofStyle int     `json:"roofStyle"` // 0..3
}

// RoadNode is a vertex of the assembled road graph.
type RoadNode struct {
	ID        string   `json:"id"`
	Kind      NodeKind `json:"kind"`
	Position  Point    `json:"position"`
	VillageID string   `json:"villageId,omitempty"`
	RoadID    string   `json:"roadId,omitempty"`
}

// RoadEdge is a graph edge covering one road.
type RoadEdge struct {
	ID            string        `json:"id"`
	RoadID        string        `json:"roadId"`
	Hierarchy     RoadHierarchy `json:"hierarchy"`
	FromNode      string        `json:"fromNode"`
	ToNode        string        `json:"toNode"`
	FromVillage   string        `json:"fromVillage"`
	ToVillage     string        `json:"toVillage"`
	Length        float64       `json:"length"`
	HasBridge     bool          `json:"hasBridge"`
	BridgeNodeIDs []string      `json:"bridgeNodeIds,omitempty"`
}

// Layout is the value-object snapshot of one region's settlement layer,
// clipped to the region's core bounds.
type Layout struct {
	RegionX   int        `json:"regionX"`
	RegionY   int        `json:"regionY"`
	Villages  []Village  `json:"villages"`
	Roads     []Road     `json:"roads"`
	RoadNodes []RoadNode `json:"roadNodes"`
	RoadEdges []RoadEdge `json:"roadEdges"`
	Parcels   []Parcel   `json:"parcels"`
	Houses    []House    `json:"houses"`
}

// Features is the aggregated, id-deduplicated result of a bounding-box
// query across one or more regions.
type Features struct {
	Villages  []Village  `json:"villages"`
	Roads     []Road     `json:"roads"`
	RoadNodes []RoadNode `json:"roadNodes"`
	RoadEdges []RoadEdge `json:"roadEdges"`
	Parcels   []Parcel   `json:"parcels"`
	Houses    []House    `json:"houses"`
}
