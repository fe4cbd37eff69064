package constants

// Graph attribute keys. These are both the vertex/edge property names in the
// store and the record keys produced by the ingestion parser.
const (
	// AttrUserID is the unique external key of a User
	AttrUserID = "userId"
	// AttrProfileName is the display name of a User (not guaranteed unique)
	AttrProfileName = "profileName"
	// AttrProductID is the unique external key of a Product
	AttrProductID = "productId"
	// AttrScore is the numeric review score (1.0-5.0 in the Fine Foods data)
	AttrScore = "score"
	// AttrTime is the integer review timestamp
	AttrTime = "time"
	// AttrReviewID is the generated identifier stamped on each review edge
	AttrReviewID = "reviewId"
)
