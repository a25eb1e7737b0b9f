package tools

import "github.com/nachoal/lingo-tutor-go/session"

// NewStartConversationTool creates the startConversation tool
func NewStartConversationTool(store *session.Store) Tool {
	return &StartConversationTool{
		baseTool: baseTool{
			name: StartConversation,
			desc: "Start a new language practice conversation in a scenario. Fails if a conversation is already in progress.",
		},
		store: store,
	}
}

// NewEndConversationTool creates the endConversation tool
func NewEndConversationTool(store *session.Store) Tool {
	return &EndConversationTool{
		baseTool: baseTool{
			name: EndConversation,
			desc: "End the current conversation, optionally saving it to history and generating feedback scores.",
		},
		store: store,
	}
}

// NewAddHintTool creates the addHint tool
func NewAddHintTool(store *session.Store) Tool {
	return &AddHintTool{
		baseTool: baseTool{
			name: AddHint,
			desc: "Add a contextual hint that will be shown to the learner during the conversation.",
		},
		store: store,
	}
}

// NewAddChallengeTool creates the addChallenge tool
func NewAddChallengeTool(store *session.Store) Tool {
	return &AddChallengeTool{
		baseTool: baseTool{
			name: AddChallenge,
			desc: "Add a language challenge for the learner to complete during the conversation.",
		},
		store: store,
	}
}

// NewAddToVocabTool creates the addToVocab tool
func NewAddToVocabTool(store *session.Store) Tool {
	return &AddToVocabTool{
		baseTool: baseTool{
			name: AddToVocab,
			desc: "Add a word or phrase to the learner's vocabulary list. Existing words are left unchanged.",
		},
		store: store,
	}
}

// NewAdjustVocabPriorityTool creates the adjustVocabPriority tool
func NewAdjustVocabPriorityTool(store *session.Store) Tool {
	return &AdjustVocabPriorityTool{
		baseTool: baseTool{
			name: AdjustVocabPriority,
			desc: "Raise or lower the review priority (1-5) of a word already in the vocabulary list.",
		},
		store: store,
	}
}

// NewGeneratePostConversationSummaryTool creates the generatePostConversationSummary tool
func NewGeneratePostConversationSummaryTool(store *session.Store) Tool {
	return &GeneratePostConversationSummaryTool{
		baseTool: baseTool{
			name: GeneratePostConversationSummary,
			desc: "Generate a summary of the most recently completed conversation with learning insights.",
		},
		store: store,
	}
}

// NewCreateCorrectionDialogueBoxTool creates the createCorrectionDialogueBox tool
func NewCreateCorrectionDialogueBoxTool(store *session.Store) Tool {
	return &CreateCorrectionDialogueBoxTool{
		baseTool: baseTool{
			name: CreateCorrectionDialogueBox,
			desc: "Show a dialogue box with corrections for the learner's mistakes.",
		},
		store: store,
	}
}

// All returns every tutor tool bound to store, in declaration order
func All(store *session.Store) []Tool {
	return []Tool{
		NewStartConversationTool(store),
		NewEndConversationTool(store),
		NewAddHintTool(store),
		NewAddChallengeTool(store),
		NewAddToVocabTool(store),
		NewAdjustVocabPriorityTool(store),
		NewGeneratePostConversationSummaryTool(store),
		NewCreateCorrectionDialogueBoxTool(store),
	}
}
