package roster

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

var sampleNames = []string{
	"Alice Johnson", "Bob Smith", "Carol Williams", "David Brown", "Eva Davis",
	"Frank Miller", "Grace Wilson", "Hank Moore", "Ivy Taylor", "Jack Anderson",
	"Kara Thomas", "Liam Jackson", "Mia White", "Noah Harris", "Olivia Martin",
	"Paul Thompson", "Quinn Garcia", "Rachel Martinez", "Sam Robinson", "Tina Clark",
	"Uma Rodriguez", "Victor Lewis", "Wendy Lee", "Xander Walker", "Yara Hall",
	"Zane Allen", "Amy Young", "Ben King", "Cathy Wright", "Derek Scott",
	"Ella Green", "Fred Adams", "Gina Baker", "Harry Nelson", "Isla Carter",
	"Jake Mitchell", "Kylie Perez", "Leo Roberts", "Maya Turner", "Nate Phillips",
	"Opal Campbell", "Pete Parker", "Queen Simmons", "Ray Evans", "Sara Edwards",
	"Tom Collins", "Ursula Stewart", "Vince Morris", "Will Rogers", "Xenia Reed",
	"Yusuf Cook", "Zara Morgan", "Aaron Bell", "Bella Murphy", "Caleb Bailey",
	"Diana Rivera", "Ethan Cooper", "Fiona Richardson", "Gabe Cox", "Holly Howard",
	"Ian Ward", "Jade Brooks", "Kyle Bennett", "Lara Gray", "Mark James",
	"Nina Watson", "Owen Brooks", "Penny Kelly", "Quincy Sanders", "Rose Price",
}

var sampleProjects = [][2]string{
	{"AI-Powered Medical Diagnosis System", "Analyze medical images and patient data to help doctors diagnose diseases."},
	{"Smart Home Automation with Embedded Systems", "Sensors and actuators for energy-efficient control of household devices."},
	{"Real-Time Traffic Prediction using Machine Learning", "Predict congestion patterns from live traffic data to shorten commutes."},
	{"Low-Power IoT Sensor Network", "Long-term environmental monitoring over low-power wireless links."},
	{"Electrical Vehicle Battery Management System", "Monitor and optimize EV battery performance and safety."},
	{"Natural Language Processing Chatbot", "Understand and answer user queries in natural language."},
	{"Autonomous Drone Navigation", "Obstacle detection and path planning for autonomous drones."},
	{"Renewable Energy Grid Integration", "Balance load and storage when feeding renewables into the grid."},
	{"Computer Vision-Based Quality Inspection", "Detect manufacturing defects automatically."},
	{"Wearable Health Monitoring Device", "Continuously monitor vital signs and give real-time feedback."},
	{"Blockchain-Based Voting System", "A transparent voting platform that improves election integrity."},
	{"Augmented Reality Educational App", "Overlay interactive 3D models onto real-world environments."},
	{"Cybersecurity Threat Detection", "Detect and respond to threats in real time with machine learning."},
	{"Smart Agriculture Monitoring System", "Track soil moisture, temperature and crop health for precision farming."},
	{"Cloud-Based Data Analytics Platform", "Scalable big data processing and visualization."},
	{"3D Printing Optimization Software", "Tune print parameters for quality and speed."},
	{"Smart Traffic Light Control System", "Adaptive signals that optimize flow from live data."},
	{"Virtual Reality Therapy Platform", "VR for phobia treatment and rehabilitation."},
	{"Machine Learning for Predictive Maintenance", "Predict equipment failures and schedule maintenance."},
	{"Robotic Arm Control System", "Control software for a manufacturing robotic arm."},
}

var interestTopics = []string{
	"AI", "Machine Learning", "Data Science", "Computer Vision", "Robotics",
	"Natural Language Processing", "Cybersecurity", "Embedded Systems", "IoT",
	"Cloud Computing", "AR/VR", "Mobile Apps", "Web Development", "Backend Systems",
	"Frontend/UI", "Product Management", "Entrepreneurship", "Open Source",
	"Education Tech", "Healthcare Tech", "Fintech", "Gaming", "Sustainability",
	"Blockchain", "3D Printing",
}

// Generate builds a synthetic campus roster of n builders. Each builder
// gets a project, two to four interests and between one and five likes of
// other builders. The same seed always yields the same roster.
func Generate(n int, seed uint64) *Roster {
	if n <= 0 {
		return New(nil)
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	profiles := make([]Profile, n)
	for i := range profiles {
		name := sampleNames[i%len(sampleNames)]
		id := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
		if round := i / len(sampleNames); round > 0 {
			id = fmt.Sprintf("%s_%d", id, round+1)
		}
		project := sampleProjects[i%len(sampleProjects)]
		profiles[i] = Profile{
			ID:              id,
			DisplayName:     name,
			Email:           id + "@purdue.edu",
			IdeaTitle:       project[0],
			IdeaDescription: project[1],
			Interests:       sample(rng, interestTopics, 2+rng.IntN(3)),
			University:      "Purdue",
		}
	}

	if n > 1 {
		ids := make([]string, n)
		for i, p := range profiles {
			ids[i] = p.ID
		}
		for i := range profiles {
			others := make([]string, 0, n-1)
			others = append(others, ids[:i]...)
			others = append(others, ids[i+1:]...)
			k := 1 + rng.IntN(min(5, len(others)))
			profiles[i].Liked = sample(rng, others, k)
		}
	}
	return New(profiles)
}

// sample picks k distinct elements of pool in random order.
func sample(rng *rand.Rand, pool []string, k int) []string {
	k = min(k, len(pool))
	idx := rng.Perm(len(pool))[:k]
	out := make([]string, k)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}
