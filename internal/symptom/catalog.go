package symptom

import "github.com/Veraticus/shop-assist/internal/model"

// GeneralQuestions are asked when a concern does not match any category.
func GeneralQuestions() []string {
	return []string{
		"Can you describe the problem in your own words?",
		"When did you first notice it?",
		"Does it happen all the time, or only under certain conditions (cold start, highway speed, turning, braking)?",
		"Have any warning lights come on?",
		"Has any recent work been done on the vehicle?",
	}
}

// DefaultCatalog returns the built-in symptom categories in match priority order.
func DefaultCatalog() []model.SymptomCategory {
	return []model.SymptomCategory{
		{
			Name: "Check Engine Light",
			Keywords: []string{
				"check engine light", "check engine", "engine light", "service engine soon",
				"cel", "flashing", "misfire", "code", "codes", "emissions",
			},
			Questions: []string{
				"When did the check engine light first come on?",
				"Is the light steady or flashing?",
				"Have you noticed any change in how the engine runs (rough idle, hesitation, loss of power)?",
				"Has the gas cap been removed or the vehicle refueled recently?",
				"Has any recent work been done on the vehicle?",
			},
		},
		{
			Name: "Brakes",
			Keywords: []string{
				"brake", "brakes", "braking", "grinding", "squeal", "squealing", "squeak",
				"pedal", "rotor", "rotors", "abs",
			},
			Questions: []string{
				"What do you hear or feel when braking (squeal, grinding, pulsation)?",
				"Does the pedal feel soft, low, or hard?",
				"Does the vehicle pull to one side when you brake?",
				"Is the brake or ABS warning light on?",
				"When were the brakes last serviced?",
			},
		},
		{
			Name: "Air Conditioning",
			Keywords: []string{
				"ac", "a/c", "air conditioning", "air conditioner", "blowing warm", "blowing hot",
				"not cold", "freon", "refrigerant",
			},
			Questions: []string{
				"Is the air blowing warm all the time, or does it come and go?",
				"Is the fan blowing at normal strength?",
				"Do you hear any unusual noise when the A/C is on?",
				"Has the system been recharged before? When?",
			},
		},
		{
			Name: "Overheating",
			Keywords: []string{
				"overheat", "overheating", "temperature gauge", "temp gauge", "coolant",
				"steam", "running hot", "antifreeze",
			},
			Questions: []string{
				"Where does the temperature gauge sit while driving, and when does it climb?",
				"Have you seen steam or smelled coolant?",
				"Have you had to add coolant? How often?",
				"Does the heater blow hot air when the engine is warm?",
			},
		},
		{
			Name: "No Start / Battery",
			Keywords: []string{
				"won't start", "wont start", "no start", "battery", "dead battery", "clicking",
				"crank", "cranks", "jump start", "alternator",
			},
			Questions: []string{
				"When you turn the key, does it click, crank slowly, crank normally, or do nothing?",
				"Do the dash lights come on?",
				"How old is the battery?",
				"Has it needed a jump start recently?",
			},
		},
		{
			Name: "Noise",
			Keywords: []string{
				"noise", "noises", "clunk", "clunking", "rattle", "rattling", "knock", "knocking",
				"whine", "whining", "humming",
			},
			Questions: []string{
				"Where does the noise seem to come from (front, rear, under the hood)?",
				"When do you hear it (idle, accelerating, turning, over bumps)?",
				"How would you describe it (clunk, rattle, whine, hum)?",
				"Does it change with vehicle speed or engine speed?",
			},
		},
		{
			Name: "Steering & Suspension",
			Keywords: []string{
				"steering", "pulls", "pulling", "alignment", "vibration", "vibrates", "shake",
				"shaking", "wobble", "bumpy", "suspension",
			},
			Questions: []string{
				"Does the vehicle pull to one side while driving straight?",
				"At what speed does the vibration or shake start?",
				"Do you feel it in the steering wheel, the seat, or both?",
				"Have you hit a pothole or curb recently?",
			},
		},
		{
			Name: "Transmission",
			Keywords: []string{
				"transmission", "shifting", "slipping", "gear", "gears", "hard shift", "won't shift",
				"clutch",
			},
			Questions: []string{
				"Does it shift late, early, harshly, or not at all?",
				"Does the engine rev without the vehicle speeding up?",
				"Does it happen when cold, hot, or all the time?",
				"When was the transmission fluid last serviced?",
			},
		},
		{
			Name: "Fluid Leak",
			Keywords: []string{
				"leak", "leaking", "drip", "dripping", "puddle", "oil spot",
			},
			Questions: []string{
				"What color is the fluid?",
				"Where under the vehicle is the spot (front, middle, rear)?",
				"How big is the spot after sitting overnight?",
				"Have any fluid warning lights come on?",
			},
		},
		{
			Name: "Electrical",
			Keywords: []string{
				"lights", "headlight", "headlights", "power window", "radio", "fuse",
				"electrical", "flicker", "flickering",
			},
			Questions: []string{
				"Which components are affected?",
				"Does the problem come and go, or is it constant?",
				"Has any aftermarket equipment been installed?",
				"Does it change when you move the key or wiggle the switch?",
			},
		},
	}
}
