package kb

// facts is the fixed knowledge base. Order has no semantic meaning but is
// stable so ranked results can refer back by index.
var facts = []string{
	"Drinking water before, during, and after workouts improves performance and recovery.",
	"Staying hydrated helps regulate body temperature during exercise.",
	"Too much caffeine can cause dehydration and mess with your sleep.",
	"Sleep is just as important as diet and exercise.",
	"Meal prepping helps with portion control and tracking your nutrition.",
	"Yoga improves balance, flexibility, and focus when practiced regularly.",
	"Push-ups work the chest, shoulders, triceps, arms, and core.",
	"Consistency is more important than intensity — small regular workouts are best.",
	"Walking or biking to class counts toward your daily activity goals.",
	"Eating protein helps muscles heal and grow after workouts.",
	"Warming up increases blood flow and prepares your body for activity.",
	"Squats target the glutes, quads, and hamstrings for strong legs.",
	"Foam rolling can reduce muscle soreness and speed up recovery.",
	"Rest days help your muscles recover and grow stronger.",
	"Cycling is a low-impact cardio workout that strengthens your legs and heart.",
	"Good form prevents injuries and gets better results.",
	"Added sugar can lead to energy crashes and weight gain.",
	"Healthy fats support brain health and hormone balance.",
	"Bananas and oranges give quick energy and important vitamins.",
	"Small habits, repeated daily, lead to big results over time.",
	"You don't have to be perfect — just keep showing up.",
	"Avocados are full of potassium and help support healthy blood pressure.",
	"Stretching after a workout can improve flexibility and reduce soreness.",
	"Salmon is a great source of protein and omega-3 fatty acids.",
	"Getting sunlight during the day helps regulate your sleep cycle.",
	"Deep breathing and mindfulness can help reduce stress before workouts.",
	"Resistance bands are an affordable way to build strength at home.",
	"High-fiber foods help with digestion and make you feel fuller longer.",
	"Your body needs rest to build strength — rest is part of training.",
	"Whole grains give lasting energy and support steady blood sugar.",
}

// Facts returns the knowledge-base fact strings in their canonical order.
func Facts() []string {
	out := make([]string, len(facts))
	copy(out, facts)
	return out
}
