package domain

// Exercise mirrors one record from the ExerciseDB API. Only the fields the
// workout builder filters on are decoded; the rest pass through untouched.
type Exercise struct {
	ExerciseID       string   `json:"id"`
	Name             string   `json:"name"`
	BodyPart         string   `json:"bodyPart"`
	Equipment        string   `json:"equipment"`
	Target           string   `json:"target"`
	GifURL           string   `json:"gifUrl"`
	SecondaryMuscles []string `json:"secondaryMuscles,omitempty"`
	Instructions     []string `json:"instructions,omitempty"`
}
