package compass

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/compasslabs/compass-agent/pkg/inference/tools"
)

// Toolkit exposes the Compass API endpoints as agent tools. Tool names and
// schemas are opaque to the rest of the system and flow straight into the
// inference engine's tool advertisement.
type Toolkit struct {
	client *Client
}

// NewToolkit creates a toolkit backed by the given client.
func NewToolkit(client *Client) *Toolkit {
	return &Toolkit{client: client}
}

type setAllowanceArgs struct {
	Chain    string `json:"chain" jsonschema:"required,description=The chain to transact on (e.g. ethereum or arbitrum)"`
	Sender   string `json:"sender" jsonschema:"required,description=The wallet address granting the allowance"`
	Token    string `json:"token" jsonschema:"required,description=The token symbol"`
	Contract string `json:"contract" jsonschema:"required,description=The contract being approved (e.g. UniswapV3Router)"`
	Amount   string `json:"amount" jsonschema:"required,description=The allowance amount in token units"`
}

type getAllowanceArgs struct {
	Chain    string `json:"chain" jsonschema:"required,description=The chain to query"`
	Owner    string `json:"owner" jsonschema:"required,description=The wallet address owning the tokens"`
	Token    string `json:"token" jsonschema:"required,description=The token symbol"`
	Contract string `json:"contract" jsonschema:"required,description=The spender contract"`
}

type aaveSupplyArgs struct {
	Chain      string `json:"chain" jsonschema:"required,description=The chain to transact on"`
	Sender     string `json:"sender" jsonschema:"required,description=The wallet address supplying the asset"`
	OnBehalfOf string `json:"on_behalf_of,omitempty" jsonschema:"description=Optional address credited with the supplied collateral"`
	Token      string `json:"token" jsonschema:"required,description=The token symbol"`
	Amount     string `json:"amount" jsonschema:"required,description=The amount to supply in token units"`
}

type uniswapSwapArgs struct {
	Chain    string `json:"chain" jsonschema:"required,description=The chain to transact on"`
	Sender   string `json:"sender" jsonschema:"required,description=The wallet address performing the swap"`
	TokenIn  string `json:"token_in" jsonschema:"required,description=The token to sell"`
	TokenOut string `json:"token_out" jsonschema:"required,description=The token to buy"`
	Amount   string `json:"amount" jsonschema:"required,description=The input amount in token units"`
}

type portfolioArgs struct {
	Chain   string `json:"chain" jsonschema:"required,description=The chain to inspect"`
	Address string `json:"address" jsonschema:"required,description=The wallet address to visualize"`
}

type tokenPriceArgs struct {
	Chain string `json:"chain" jsonschema:"required,description=The chain to query"`
	Token string `json:"token" jsonschema:"required,description=The token symbol"`
}

// endpoint binds a tool name to a Compass API path and an argument schema.
// returnDirect marks endpoints whose payload (an unsigned transaction or an
// image) is the answer itself and must reach the user unparaphrased.
type endpoint struct {
	name         string
	description  string
	path         string
	args         any
	returnDirect bool
}

var endpoints = []endpoint{
	{
		name:         "compass_set_allowance",
		description:  "Set a token allowance for a contract. Returns an unsigned transaction to sign.",
		path:         "/v0/generic/allowance/set",
		args:         setAllowanceArgs{},
		returnDirect: true,
	},
	{
		name:        "compass_get_allowance",
		description: "Read the current token allowance granted to a contract.",
		path:        "/v0/generic/allowance/get",
		args:        getAllowanceArgs{},
	},
	{
		name:         "compass_aave_supply",
		description:  "Supply an asset to Aave. Returns an unsigned transaction to sign.",
		path:         "/v0/aave/supply",
		args:         aaveSupplyArgs{},
		returnDirect: true,
	},
	{
		name:         "compass_uniswap_swap",
		description:  "Swap tokens on Uniswap. Returns an unsigned transaction to sign.",
		path:         "/v0/uniswap/swap",
		args:         uniswapSwapArgs{},
		returnDirect: true,
	},
	{
		name:         "compass_visualize_portfolio",
		description:  "Render a wallet's portfolio as a pie chart image.",
		path:         "/v0/generic/portfolio/visualize",
		args:         portfolioArgs{},
		returnDirect: true,
	},
	{
		name:        "compass_token_price",
		description: "Fetch the current price of a token.",
		path:        "/v0/generic/price/get",
		args:        tokenPriceArgs{},
	},
}

// GetTools returns the tool definitions backed by the Compass API.
func (t *Toolkit) GetTools() []tools.ToolDefinition {
	out := make([]tools.ToolDefinition, 0, len(endpoints))
	for _, ep := range endpoints {
		ep := ep
		out = append(out, tools.ToolDefinition{
			Name:        ep.name,
			Description: ep.description,
			Parameters:  reflectSchema(ep.args),
			Function: func(ctx context.Context, arguments json.RawMessage) (string, error) {
				return t.client.Post(ctx, ep.path, arguments)
			},
			Tags:         []string{"compass"},
			ReturnDirect: ep.returnDirect,
		})
	}
	return out
}

// Register adds all Compass tools to a registry.
func (t *Toolkit) Register(registry tools.ToolRegistry) error {
	for _, def := range t.GetTools() {
		if err := registry.RegisterTool(def.Name, def); err != nil {
			return err
		}
	}
	return nil
}

// reflectSchema generates an inline JSON schema for an argument struct.
func reflectSchema(args any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		// Expand definitions inline instead of using $refs
		DoNotReference: true,
	}
	schema := reflector.Reflect(args)
	if schema.Type == "" && schema.Ref == "" {
		schema.Type = "object"
	}
	return schema
}
