package queuevalues

// Ranked queue types, as returned by the league endpoints.
const (
	RankedSolo = "RANKED_SOLO_5x5"
	RankedFlex = "RANKED_FLEX_SR"
)

// Match queue ids of the ranked queues.
var RankedQueueValue = map[int]string{
	420: RankedSolo,
	440: RankedFlex,
}

// Names of the common match queues.
var queueNames = map[int]string{
	400:  "NORMAL_DRAFT",
	420:  RankedSolo,
	430:  "NORMAL_BLIND",
	440:  RankedFlex,
	450:  "ARAM",
	490:  "QUICKPLAY",
	700:  "CLASH",
	900:  "URF",
	1700: "ARENA",
	1900: "URF",
}

// QueueName returns the name of a match queue id, or UNKNOWN.
func QueueName(queueId int) string {
	if name, ok := queueNames[queueId]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsRanked tells if the match queue is a ranked one.
func IsRanked(queueId int) bool {
	_, ok := RankedQueueValue[queueId]
	return ok
}
