// Stable identifier scheme. Entity ids are pure functions of their spatial
// or generation keys, so independent computations of the same entity agree
// byte-for-byte. Cross-region deduplication relies on id equality, which is
// why these are plain formatted strings rather than opaque handles.
package settlement

import "fmt"

func villageID(cellX, cellY int) string {
	return fmt.Sprintf("v-%d,%d", cellX, cellY)
}

// edgeKey is the unordered pair key for a regional connection: the two
// village ids joined lexicographically.
func edgeKey(idA, idB string) string {
	if idA > idB {
		idA, idB = idB, idA
	}
	return idA + "|" + idB
}

func regionalRoadID(key string) string {
	return "r-" + key
}

func localSpokeID(villageID string, spoke int) string {
	return fmt.Sprintf("rl-%s-%d", villageID, spoke)
}

func localBranchID(villageID string, spoke, branch int) string {
	return fmt.Sprintf("rlb-%s-%d-%d", villageID, spoke, branch)
}

func parcelID(roadID string, segIdx, stepIdx, side int) string {
	return fmt.Sprintf("p-%s-%d-%d-%d", roadID, segIdx, stepIdx, side)
}

func houseID(parcelID string) string {
	return "h-" + parcelID
}

func roadEndNodeID(roadID string, end string) string {
	return fmt.Sprintf("rn-%s-%s", roadID, end)
}

func bridgeNodeID(roadID string, bridgeIdx int) string {
	return fmt.Sprintf("rnb-%s-%d", roadID, bridgeIdx)
}

func villageNodeID(villageID string) string {
	return "rnv-" + villageID
}

func graphEdgeID(roadID string) string {
	return "re-" + roadID
}
