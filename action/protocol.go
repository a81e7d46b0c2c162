package action

import (
	"net/url"
)

// Wire types of the Solana Actions protocol.

type ActionError struct {
	Message string `json:"message"`
}

type ActionParameter struct {
	Name     string `json:"name"`
	Label    string `json:"label,omitempty"`
	Required bool   `json:"required,omitempty"`
}

type LinkedAction struct {
	Href       string            `json:"href"`
	Label      string            `json:"label"`
	Parameters []ActionParameter `json:"parameters,omitempty"`
}

type ActionLinks struct {
	Actions []LinkedAction `json:"actions"`
}

type ActionGetResponse struct {
	Icon        string       `json:"icon"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Label       string       `json:"label"`
	Disabled    bool         `json:"disabled,omitempty"`
	Links       *ActionLinks `json:"links,omitempty"`
	Error       *ActionError `json:"error,omitempty"`
}

type ActionPostRequest struct {
	Account string `json:"account"`
	Side    string `json:"side,omitempty"`
	Seed    string `json:"seed,omitempty"`
}

type ActionPostResponse struct {
	Transaction string `json:"transaction"`
	Message     string `json:"message,omitempty"`
}

// ActionRule maps a path pattern to an API path for actions.json.
type ActionRule struct {
	PathPattern string `json:"pathPattern"`
	APIPath     string `json:"apiPath"`
}

type ActionsJSON struct {
	Rules []ActionRule `json:"rules"`
}

// Descriptor is the static presentation of the coin-flip action.
type Descriptor struct {
	Path        string // e.g. /api/actions
	Icon        string
	Title       string
	Description string
	Label       string
}

func DefaultDescriptor() Descriptor {
	return Descriptor{
		Path:        "/api/actions",
		Icon:        "https://gamba-blinks.vercel.app/logo.png",
		Title:       "Play Coin Flip On-Chain Anywhere With Gamba Blinks",
		Description: "Bet SOL on heads or tails and win double or nothing!",
		Label:       "Flip Coin",
	}
}

// Metadata builds the GET response. Each side links back to the POST
// endpoint with the amount left as a {amount} template for the client.
func (d Descriptor) Metadata() ActionGetResponse {
	amountParam := []ActionParameter{{
		Name:     "amount",
		Label:    "Enter the amount of SOL to bet",
		Required: true,
	}}
	link := func(label, side string) LinkedAction {
		return LinkedAction{
			Label:      label,
			Href:       d.Path + "?amount={amount}&side=" + url.QueryEscape(side),
			Parameters: amountParam,
		}
	}
	return ActionGetResponse{
		Icon:        d.Icon,
		Title:       d.Title,
		Description: d.Description,
		Label:       d.Label,
		Links: &ActionLinks{Actions: []LinkedAction{
			link("Heads", "heads"),
			link("Tails", "tails"),
		}},
	}
}

// Rules serves the action path and everything below it from itself.
func (d Descriptor) Rules() ActionsJSON {
	return ActionsJSON{Rules: []ActionRule{
		{PathPattern: d.Path, APIPath: d.Path},
		{PathPattern: d.Path + "/**", APIPath: d.Path + "/**"},
	}}
}
