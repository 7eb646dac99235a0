package practice

import "time"

// WritingPrompt is a writing exercise with a minimum word count.
type WritingPrompt struct {
	Title    string
	Level    string
	Prompt   string
	Tips     []string
	MinWords int
}

// SpeakingExercise is a timed speaking exercise.
type SpeakingExercise struct {
	Title    string
	Level    string
	Prompt   string
	Duration time.Duration
}

// WritingPrompts is the built-in writing catalog, easiest first.
var WritingPrompts = []WritingPrompt{
	{
		Title:  "My Daily Routine",
		Level:  "Beginner",
		Prompt: "Write about your daily routine. Describe what you do from morning to evening. Include activities like waking up, eating meals, going to work or school, and your hobbies.",
		Tips: []string{
			"Use present simple tense (I wake up, I eat breakfast)",
			"Use time expressions (in the morning, at noon, in the evening)",
		},
		MinWords: 100,
	},
	{
		Title:  "A Memorable Vacation",
		Level:  "Intermediate",
		Prompt: "Describe a vacation or trip that was memorable for you. Explain where you went, what you did, who you were with, and why it was special.",
		Tips: []string{
			"Use past tense (I went, I saw, I felt)",
			"Organize your writing with paragraphs",
		},
		MinWords: 200,
	},
	{
		Title:  "The Impact of Technology",
		Level:  "Advanced",
		Prompt: "Discuss how technology has changed our lives. Consider both positive and negative aspects. What do you think the future holds?",
		Tips: []string{
			"Include examples and evidence",
			"Use linking words (however, furthermore, therefore)",
		},
		MinWords: 300,
	},
}

// SpeakingExercises is the built-in speaking catalog, easiest first.
var SpeakingExercises = []SpeakingExercise{
	{
		Title:    "Introduce Yourself",
		Level:    "Beginner",
		Prompt:   "Introduce yourself in English. Talk about your name, where you are from, your hobbies, and what you like to do in your free time.",
		Duration: 60 * time.Second,
	},
	{
		Title:    "Describe Your Favorite Place",
		Level:    "Intermediate",
		Prompt:   "Describe your favorite place. Explain why you like it and what makes it special.",
		Duration: 90 * time.Second,
	},
	{
		Title:    "Express Your Opinion",
		Level:    "Advanced",
		Prompt:   `Give your opinion on the following topic: "Should students be required to learn a second language?" Explain your position with reasons and examples.`,
		Duration: 120 * time.Second,
	},
}
