package domain

// The collapse view is a two-state machine over the ingestion panel:
// Expanded (initial) and Collapsed. Entering Collapsed always re-renders the
// summary label from the current valid list.

func ToggleCollapse() Reducer {
	return func(s Snapshot) Snapshot {
		if s.Collapsed {
			return WithCollapsed(false)(s)
		}
		return Chain(WithCollapsed(true), WithCountRefreshed())(s)
	}
}

func CollapsePanel() Reducer {
	return Chain(WithCollapsed(true), WithCountRefreshed())
}

func ExpandPanel() Reducer {
	return WithCollapsed(false)
}
