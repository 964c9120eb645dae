package calendar

import "time"

// MuhuratWindow lists the named time windows of a weekday.
//
// Rahu Kaal, Yamaganda and Gulika Kaal are inauspicious; Abhijit is the
// auspicious midday window. Times assume a 06:00 sunrise.
type MuhuratWindow struct {
	RahuKaal   string `json:"rahu_kaal"`
	Yamaganda  string `json:"yamaganda"`
	Abhijit    string `json:"abhijit"`
	GulikaKaal string `json:"gulika_kaal"`
}

var muhuratTable = [7]MuhuratWindow{
	time.Sunday: {
		RahuKaal:   "16:30 - 18:00",
		Yamaganda:  "12:00 - 13:30",
		Abhijit:    "11:48 - 12:36",
		GulikaKaal: "15:00 - 16:30",
	},
	time.Monday: {
		RahuKaal:   "07:30 - 09:00",
		Yamaganda:  "10:30 - 12:00",
		Abhijit:    "11:48 - 12:36",
		GulikaKaal: "13:30 - 15:00",
	},
	time.Tuesday: {
		RahuKaal:   "15:00 - 16:30",
		Yamaganda:  "09:00 - 10:30",
		Abhijit:    "11:48 - 12:36",
		GulikaKaal: "12:00 - 13:30",
	},
	time.Wednesday: {
		RahuKaal:   "12:00 - 13:30",
		Yamaganda:  "07:30 - 09:00",
		Abhijit:    "11:48 - 12:36",
		GulikaKaal: "10:30 - 12:00",
	},
	time.Thursday: {
		RahuKaal:   "13:30 - 15:00",
		Yamaganda:  "06:00 - 07:30",
		Abhijit:    "11:48 - 12:36",
		GulikaKaal: "09:00 - 10:30",
	},
	time.Friday: {
		RahuKaal:   "10:30 - 12:00",
		Yamaganda:  "15:00 - 16:30",
		Abhijit:    "11:48 - 12:36",
		GulikaKaal: "07:30 - 09:00",
	},
	time.Saturday: {
		RahuKaal:   "09:00 - 10:30",
		Yamaganda:  "13:30 - 15:00",
		Abhijit:    "11:48 - 12:36",
		GulikaKaal: "06:00 - 07:30",
	},
}

// ComputeMuhurat returns the windows for a weekday. Values outside 0..6 are
// taken modulo 7.
func ComputeMuhurat(weekday time.Weekday) MuhuratWindow {
	return muhuratTable[mod(int(weekday), 7)]
}
