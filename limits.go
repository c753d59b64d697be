package amb

// Limits defines bounds enforced during article discovery. These guard
// against pathological input trees (link cycles that fan out unboundedly,
// absurdly deep link chains) independent of the hard per-article size bound
// already fixed by the AMA format (AMA_MAX_BYTES).
//
// Zero values for any field are replaced with safe defaults when used. To
// disable a limit, set it to a very large value, not zero.
type Limits struct {
	// MaxArticles is the maximum number of distinct articles discovery may visit.
	MaxArticles int
	// MaxDiscoveryDepth is the maximum BFS depth from the root article.
	MaxDiscoveryDepth int
	// MaxTotalSourceBytes is the maximum combined size of all discovered Markdown sources.
	MaxTotalSourceBytes int64
}

// DefaultLimits returns the default limits used when Limits is unset.
func DefaultLimits() Limits {
	return defaultLimits()
}

func defaultLimits() Limits {
	return Limits{
		MaxArticles:         20_000,
		MaxDiscoveryDepth:   4_096,
		MaxTotalSourceBytes: 1 << 30, // 1 GiB
	}
}

// withDefaults returns a copy of l with zero fields replaced by defaults.
func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxArticles == 0 {
		l.MaxArticles = d.MaxArticles
	}
	if l.MaxDiscoveryDepth == 0 {
		l.MaxDiscoveryDepth = d.MaxDiscoveryDepth
	}
	if l.MaxTotalSourceBytes == 0 {
		l.MaxTotalSourceBytes = d.MaxTotalSourceBytes
	}
	return l
}
