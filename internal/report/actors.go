package report

// Impact tier boundaries for key actors.
const (
	actorImpactHigh   = 10
	actorImpactMedium = 3
)

// keyActors ranks up to 5 actors. The primary source is the service's
// ranked-entity strings; when no entity ranking exists, the topic ranking
// stands in so the list is never empty for annotated runs.
func keyActors(summary *RunSummary, stats runStats) []KeyActor {
	if summary != nil && len(summary.TopEntities) > 0 {
		return actorsFromEntities(summary.TopEntities, stats)
	}
	return actorsFromTopics(stats)
}

func actorsFromEntities(entities []string, stats runStats) []KeyActor {
	actors := make([]KeyActor, 0, maxKeyActors)
	for _, entity := range entities {
		if len(actors) == maxKeyActors {
			break
		}
		name, count, _ := parseEntity(entity)
		if name == "" {
			continue
		}
		actors = append(actors, KeyActor{
			Name:      name,
			Role:      "Político",
			Mentions:  count,
			Impact:    impactTier(count),
			Sentiment: actorSentiment(count, stats),
		})
	}
	return actors
}

func actorsFromTopics(stats runStats) []KeyActor {
	n := min(len(stats.topics), maxKeyActors)
	actors := make([]KeyActor, 0, n)
	for i := 0; i < n; i++ {
		t := stats.topics[i]
		actors = append(actors, KeyActor{
			Name:      t.name,
			Role:      "Tema",
			Mentions:  t.mentions,
			Impact:    impactTier(t.mentions),
			Sentiment: actorSentiment(t.mentions, stats),
		})
	}
	return actors
}

func impactTier(mentions int) string {
	switch {
	case mentions > actorImpactHigh:
		return "high"
	case mentions > actorImpactMedium:
		return "medium"
	default:
		return "low"
	}
}

// actorSentiment labels an actor positive when its mention count exceeds
// half the run's positive share, neutral otherwise.
func actorSentiment(mentions int, stats runStats) string {
	if mentions > stats.sentiments.Positive/2 {
		return "positive"
	}
	return "neutral"
}
