package schedule

// ===============================
// Weekday Templates
// ===============================

// MondayBarber is the only barber that works Monday afternoons. This is a
// named exception of the shop, keyed by barber name, not a configurable rule.
const MondayBarber = "michele"

// TemplateSlots returns the default slot list for a barber on a weekday
// (0=Sunday..6=Saturday), absent any per-date override. Pure function.
func TemplateSlots(barberName string, weekday int) []string {
	switch weekday {
	case 0:
		return []string{}
	case 1:
		if barberName != MondayBarber {
			return []string{}
		}
		return slotRange("15:00", "18:00")
	case 6:
		return append(
			slotRange("09:00", "12:30"),
			slotRange("14:30", "17:00")...,
		)
	default:
		return append(
			slotRange("09:00", "12:30"),
			slotRange("15:00", "17:30")...,
		)
	}
}

// slotRange expands an inclusive [from, to] range into 30-minute steps.
func slotRange(from, to string) []string {
	start := MinuteOfDay(from)
	end := MinuteOfDay(to)

	var out []string
	for m := start; m <= end; m += SlotStepMinutes {
		out = append(out, FormatMinute(m))
	}
	return out
}
