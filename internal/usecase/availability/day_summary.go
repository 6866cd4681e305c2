package availability

import "context"

// DaySummary is the day-granularity rollup the calendar uses to gray out
// cells. totalSlots == 0 means closed; totalSlots > 0 with hasSlots == false
// means fully booked. The two render differently.
type DaySummary struct {
	HasSlots       bool `json:"hasSlots"`
	AvailableCount int  `json:"availableCount"`
	TotalSlots     int  `json:"totalSlots"`
}

type BatchAvailability struct {
	resolve *ResolveSlots
}

func NewBatchAvailability(resolve *ResolveSlots) *BatchAvailability {
	return &BatchAvailability{resolve: resolve}
}

func (uc *BatchAvailability) Execute(
	ctx context.Context,
	barberID uint,
	dates []string,
) (map[string]DaySummary, error) {

	out := make(map[string]DaySummary, len(dates))

	for _, date := range dates {
		slots, err := uc.resolve.Execute(ctx, barberID, date)
		if err != nil {
			return nil, err
		}

		available := 0
		for _, s := range slots {
			if s.Available {
				available++
			}
		}

		out[date] = DaySummary{
			HasSlots:       available > 0,
			AvailableCount: available,
			TotalSlots:     len(slots),
		}
	}

	return out, nil
}
