package client

import (
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type rpcRequest struct {
	ID     jsoniter.RawMessage   `json:"id"`
	Method string                `json:"method"`
	Params []jsoniter.RawMessage `json:"params"`
}

type rpcCallArg struct {
	To    common.Address `json:"to"`
	Input hexutil.Bytes  `json:"input"`
	Data  hexutil.Bytes  `json:"data"`
}

// fakeNode is a minimal Ethereum JSON-RPC server answering eth_chainId, eth_getCode and eth_call.
type fakeNode struct {
	srv     *httptest.Server
	chainID uint64

	mu      sync.Mutex
	code    map[common.Address][]byte
	results map[string][]any // keyed by contract hex + method name
	calls   atomic.Int64

	// callDelay holds every eth_call open for this many nanoseconds.
	callDelay   atomic.Int64
	inflight    atomic.Int64
	maxInflight atomic.Int64
}

func newFakeNode(t *testing.T, chainID uint64) *fakeNode {
	t.Helper()
	n := &fakeNode{
		chainID: chainID,
		code:    make(map[common.Address][]byte),
		results: make(map[string][]any),
	}
	n.srv = httptest.NewServer(http.HandlerFunc(n.handle))
	t.Cleanup(n.srv.Close)
	return n
}

func (n *fakeNode) URL() string { return n.srv.URL }

func (n *fakeNode) setCode(addr common.Address, code []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.code[addr] = code
}

func (n *fakeNode) setResult(contract common.Address, method string, values ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.results[contract.Hex()+"."+method] = values
}

func (n *fakeNode) handle(w http.ResponseWriter, r *http.Request) {
	n.calls.Add(1)
	body, _ := io.ReadAll(r.Body)
	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Method == "eth_call" {
		n.trackInflight()
	}
	result, rpcErr := n.dispatch(req)

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if rpcErr != nil {
		resp["error"] = map[string]any{"code": -32000, "message": rpcErr.Error()}
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (n *fakeNode) trackInflight() {
	cur := n.inflight.Add(1)
	defer n.inflight.Add(-1)
	for {
		seen := n.maxInflight.Load()
		if cur <= seen || n.maxInflight.CompareAndSwap(seen, cur) {
			break
		}
	}
	if d := n.callDelay.Load(); d > 0 {
		time.Sleep(time.Duration(d))
	}
}

func (n *fakeNode) dispatch(req rpcRequest) (any, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch req.Method {
	case "eth_chainId":
		return hexutil.EncodeUint64(n.chainID), nil
	case "eth_getCode":
		var addr common.Address
		if err := json.Unmarshal(req.Params[0], &addr); err != nil {
			return nil, err
		}
		return hexutil.Encode(n.code[addr]), nil
	case "eth_call":
		var arg rpcCallArg
		if err := json.Unmarshal(req.Params[0], &arg); err != nil {
			return nil, err
		}
		input := arg.Input
		if len(input) == 0 {
			input = arg.Data
		}
		if len(input) < 4 {
			return nil, fmt.Errorf("short call data")
		}
		parsed := contractABI()
		method, err := parsed.MethodById(input[:4])
		if err != nil {
			return nil, err
		}
		values, ok := n.results[arg.To.Hex()+"."+method.Name]
		if !ok {
			return nil, fmt.Errorf("execution reverted")
		}
		out, err := method.Outputs.Pack(values...)
		if err != nil {
			return nil, err
		}
		return hexutil.Encode(out), nil
	default:
		return nil, fmt.Errorf("method %s not supported", strings.TrimSpace(req.Method))
	}
}

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad integer " + s)
	}
	return v
}
