package roster

// LocalUserID is the focal id used when no signed-in user is available.
const LocalUserID = "local-current-user"

// LocalUser returns the placeholder profile for the local user.
func LocalUser() Profile {
	return Profile{
		ID:              LocalUserID,
		DisplayName:     "You",
		Email:           "you@example.com",
		IdeaTitle:       "Your Idea TBD",
		IdeaDescription: "Add your profile later.",
		Interests:       []string{"Networking", "Innovation", "Startups"},
	}
}

// seedProfiles are the ten built-in builders of the demo network.
func seedProfiles() []Profile {
	return []Profile{
		{ID: "demo-user-1", DisplayName: "Alice", Email: "alice@example.com", Interests: []string{"AI", "Campus", "Matching"}, IdeaTitle: "AI Campus Concierge", IdeaDescription: "Campus assistant that forms micro sprint pods."},
		{ID: "demo-user-2", DisplayName: "Bob", Email: "bob@example.com", Interests: []string{"Realtime", "Study", "Focus"}, IdeaTitle: "Realtime Study Matcher", IdeaDescription: "Pairs students based on current focus & energy."},
		{ID: "demo-user-3", DisplayName: "Chloe", Email: "chloe@example.com", Interests: []string{"Graph", "Networking", "Founders"}, IdeaTitle: "Founders Graph", IdeaDescription: "Dynamic network that expands as you connect."},
		{ID: "demo-user-4", DisplayName: "Devon", Email: "devon@example.com", Interests: []string{"Internships", "Skills", "Talent"}, IdeaTitle: "Micro-Internships Hub", IdeaDescription: "Short scoped product pushes validating skill."},
		{ID: "demo-user-5", DisplayName: "Esha", Email: "esha@example.com", Interests: []string{"Pitch", "Video", "Transcription"}, IdeaTitle: "Pitch Replay Summarizer", IdeaDescription: "Transcribe & synthesize founder pitches."},
		{ID: "demo-user-6", DisplayName: "Finn", Email: "finn@example.com", Interests: []string{"Edge", "Deployment", "Infra"}, IdeaTitle: "Edge Deploy Manager", IdeaDescription: "Zero-config edge function orchestrator."},
		{ID: "demo-user-7", DisplayName: "Gia", Email: "gia@example.com", Interests: []string{"Notes", "Context", "Docs"}, IdeaTitle: "Contextual Notetaker", IdeaDescription: "Ambient notes auto-linking people & docs."},
		{ID: "demo-user-8", DisplayName: "Hiro", Email: "hiro@example.com", Interests: []string{"Performance", "Tracing", "Latency"}, IdeaTitle: "Latency Budget Analyzer", IdeaDescription: "Trace ingestion + perf budget guidance."},
		{ID: "demo-user-9", DisplayName: "Ivy", Email: "ivy@example.com", Interests: []string{"Onboarding", "Replay", "Education"}, IdeaTitle: "Onboarding Replay", IdeaDescription: "Interactive replays teaching internal flows."},
		{ID: "demo-user-10", DisplayName: "Jules", Email: "jules@example.com", Interests: []string{"Async", "Standup", "Summaries"}, IdeaTitle: "Async Standup Synth", IdeaDescription: "Summarizes updates & flags blockers."},
	}
}

// Seed returns the pristine demo network: the local user followed by the
// ten seed builders, with nobody liking anyone yet.
func Seed() *Roster {
	return New(append([]Profile{LocalUser()}, seedProfiles()...))
}

// demoLikes connects the seed builders so the demo network shows every ring.
var demoLikes = map[string][]string{
	LocalUserID:   {"demo-user-1", "demo-user-2", "demo-user-3"},
	"demo-user-1": {"demo-user-4", "demo-user-5", "demo-user-2"},
	"demo-user-2": {"demo-user-6", "demo-user-7"},
	"demo-user-3": {"demo-user-8", LocalUserID},
	"demo-user-4": {"demo-user-9"},
	"demo-user-7": {"demo-user-10"},
	"demo-user-9": {"demo-user-1"},
}

// Demo returns the seed network with a fixed set of likes applied: the
// local user has three direct connections and five second-degree ones.
func Demo() *Roster {
	profiles := append([]Profile{LocalUser()}, seedProfiles()...)
	for i := range profiles {
		profiles[i].Liked = append([]string(nil), demoLikes[profiles[i].ID]...)
	}
	return New(profiles)
}
