package oracle

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/sha3"

	"github.com/JayWelsh/claim-against-nft/token"
)

// ownerOfSignature is the ERC-721 ownership query.
const ownerOfSignature = "ownerOf(uint256)"

// ownerOfSelector is the first four bytes of keccak256(ownerOfSignature).
var ownerOfSelector = selector(ownerOfSignature)

func selector(signature string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return h.Sum(nil)[:4]
}

// RPCOracle resolves ownership by calling ownerOf on a deployed collection
// through eth_call at the latest block.
type RPCOracle struct {
	rpc        *RPCClient
	collection common.Address
}

var _ OwnerOracle = (*RPCOracle)(nil)

// NewRPCOracle creates an oracle for the collection named in cfg.
func NewRPCOracle(cfg RPCConfig) (*RPCOracle, error) {
	if cfg.URL == "" {
		return nil, ErrMissingRPCURL
	}
	if !common.IsHexAddress(cfg.Collection) {
		return nil, fmt.Errorf("oracle: invalid collection address %q", cfg.Collection)
	}
	return &RPCOracle{rpc: NewRPCClient(cfg), collection: common.HexToAddress(cfg.Collection)}, nil
}

// Collection returns the token contract being queried.
func (o *RPCOracle) Collection() common.Address { return o.collection }

type callMsg struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

// OwnerOf returns the owner reported by the collection contract.
func (o *RPCOracle) OwnerOf(ctx context.Context, id token.ID) (common.Address, error) {
	data := make([]byte, 0, 4+token.KeySize)
	data = append(data, ownerOfSelector...)
	data = append(data, token.Key(id)...)

	var out string
	params := []interface{}{
		callMsg{To: o.collection.Hex(), Data: hexutil.Encode(data)},
		"latest",
	}
	if err := o.rpc.Call(ctx, "eth_call", params, &out); err != nil {
		return common.Address{}, fmt.Errorf("oracle: ownerOf(%s): %w", id.Dec(), err)
	}
	return decodeAddressWord(out)
}

// decodeAddressWord decodes a 32-byte ABI word holding an address.
func decodeAddressWord(s string) (common.Address, error) {
	raw, err := hexutil.Decode(s)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if len(raw) != 32 {
		return common.Address{}, fmt.Errorf("%w: expected 32-byte word, got %d bytes", ErrInvalidResponse, len(raw))
	}
	if !bytes.Equal(raw[:12], make([]byte, 12)) {
		return common.Address{}, fmt.Errorf("%w: dirty address padding", ErrInvalidResponse)
	}
	owner := common.BytesToAddress(raw[12:])
	if owner == (common.Address{}) {
		return common.Address{}, ErrNonexistentToken
	}
	return owner, nil
}
