package agents

import (
	"fmt"

	"agent_academy/internal/providers"
)

// DefaultModel is the backend every exercise agent runs on.
const DefaultModel = "claude-3-5-sonnet-20241022"

const generalSystem = "You are a helpful AI assistant focused on supporting human learning and growth."

// Agent and method names accepted by the dispatch endpoint.
const (
	AgentPromptMaster         = "prompt-master"
	AgentGoalCoach            = "goal-coach"
	AgentCreativeCollaborator = "creative-collaborator"
	AgentProductivity         = "productivity"
	AgentGeneral              = "general"

	MethodAnalyzePrompt          = "analyzePrompt"
	MethodProcessGoalStep        = "processGoalStep"
	MethodProcessCreativeSession = "processCreativeSession"
	MethodProcessWorkflow        = "processWorkflow"
)

// Request is the decoded body of an agent dispatch call. Which fields matter
// depends on the agent/method pair; unused fields are ignored.
type Request struct {
	Agent  string `json:"agent"`
	Method string `json:"method"`
	Prompt string `json:"prompt"`

	Context      string `json:"context,omitempty"`      // prompt-master
	StepContext  string `json:"stepContext,omitempty"`  // goal-coach
	SessionType  string `json:"sessionType,omitempty"`  // creative-collaborator
	WorkflowType string `json:"workflowType,omitempty"` // productivity
	Step         int    `json:"step,omitempty"`

	// general only
	System      string   `json:"system,omitempty"`
	MaxTokens   int      `json:"maxTokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// Invocation is the resolved model call for an agent request.
type Invocation struct {
	Model string
	Req   providers.GenerateRequest
	// ParseFeedback marks invocations whose reply should be run through the
	// structured feedback extractor (prompt analysis exercises).
	ParseFeedback bool
}

// BuildInvocation resolves an agent request to a concrete model call. Unknown
// agents and agent/method mismatches are caller errors naming the offender.
func BuildInvocation(req Request) (Invocation, error) {
	switch req.Agent {
	case AgentPromptMaster:
		if req.Method != MethodAnalyzePrompt {
			return Invocation{}, fmt.Errorf("invalid method %q for %s", req.Method, AgentPromptMaster)
		}
		return Invocation{
			Model:         DefaultModel,
			ParseFeedback: true,
			Req: providers.GenerateRequest{
				Model:       DefaultModel,
				Prompt:      analyzePromptTemplate(req.Prompt, req.Context),
				System:      "You are an expert in prompt engineering and AI communication. Provide constructive, educational feedback to help users improve their prompting skills.",
				MaxTokens:   800,
				Temperature: 0.3,
			},
		}, nil

	case AgentGoalCoach:
		if req.Method != MethodProcessGoalStep {
			return Invocation{}, fmt.Errorf("invalid method %q for %s", req.Method, AgentGoalCoach)
		}
		return Invocation{
			Model: DefaultModel,
			Req: providers.GenerateRequest{
				Model:  DefaultModel,
				Prompt: req.Prompt,
				System: fmt.Sprintf(`You are an expert goal achievement coach who helps people break down big goals into actionable steps.

Context: %s

Provide practical, specific guidance that helps the user move forward. Be encouraging but realistic. Always include concrete next steps.`, req.StepContext),
				MaxTokens:   1200,
				Temperature: 0.6,
			},
		}, nil

	case AgentCreativeCollaborator:
		if req.Method != MethodProcessCreativeSession {
			return Invocation{}, fmt.Errorf("invalid method %q for %s", req.Method, AgentCreativeCollaborator)
		}
		return Invocation{
			Model: DefaultModel,
			Req: providers.GenerateRequest{
				Model:  DefaultModel,
				Prompt: req.Prompt,
				System: fmt.Sprintf(`You are a creative thinking partner helping with %s. This is step %d of a structured creative process.

Be innovative, ask clarifying questions when helpful, and provide multiple perspectives. Help the user think outside conventional approaches while staying practical and actionable.`, req.SessionType, req.Step),
				MaxTokens:   1500,
				Temperature: 0.8,
			},
		}, nil

	case AgentProductivity:
		if req.Method != MethodProcessWorkflow {
			return Invocation{}, fmt.Errorf("invalid method %q for %s", req.Method, AgentProductivity)
		}
		return Invocation{
			Model: DefaultModel,
			Req: providers.GenerateRequest{
				Model:  DefaultModel,
				Prompt: req.Prompt,
				System: fmt.Sprintf(`You are a productivity expert helping with %s. This is step %d of a proven workflow.

Provide structured, actionable guidance. Break down complex topics into clear steps. Include specific examples and implementation details. Focus on practical application.`, req.WorkflowType, req.Step),
				MaxTokens:   1500,
				Temperature: 0.5,
			},
		}, nil

	case AgentGeneral:
		system := req.System
		if system == "" {
			system = generalSystem
		}
		maxTokens := req.MaxTokens
		if maxTokens <= 0 {
			maxTokens = 1000
		}
		temperature := 0.7
		if req.Temperature != nil {
			temperature = *req.Temperature
		}
		return Invocation{
			Model: DefaultModel,
			Req: providers.GenerateRequest{
				Model:       DefaultModel,
				Prompt:      req.Prompt,
				System:      system,
				MaxTokens:   maxTokens,
				Temperature: temperature,
			},
		}, nil

	default:
		return Invocation{}, fmt.Errorf("invalid agent %q", req.Agent)
	}
}

func analyzePromptTemplate(prompt, context string) string {
	return fmt.Sprintf(`Please analyze this prompt for effectiveness:

Context: %s

Prompt to analyze: "%s"

Please provide:
1. A score from 1-100 for overall effectiveness
2. Specific strengths (2-3 points)
3. Areas for improvement (2-3 points)
4. A rewritten version that demonstrates best practices

Format your response as:
SCORE: [number]
STRENGTHS:
- [strength 1]
- [strength 2]

IMPROVEMENTS:
- [improvement 1]
- [improvement 2]

REWRITTEN:
[improved version]`, context, prompt)
}
