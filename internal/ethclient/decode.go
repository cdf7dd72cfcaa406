package ethclient

import (
	"encoding/json"
	"fmt"

	"github.com/noise-xyz/brane/pkg/ethtypes"
)

type wireBlock struct {
	Number        string   `json:"number"`
	Hash          string   `json:"hash"`
	ParentHash    string   `json:"parentHash"`
	Timestamp     string   `json:"timestamp"`
	GasUsed       string   `json:"gasUsed"`
	GasLimit      string   `json:"gasLimit"`
	BaseFeePerGas string   `json:"baseFeePerGas"`
	Transactions  []string `json:"transactions"`
}

func decodeBlock(raw json.RawMessage) (*Block, error) {
	var w wireBlock
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decoding block: %w", err)
	}
	number, err := ethtypes.ParseHexUint64(w.Number)
	if err != nil {
		return nil, err
	}
	hash, err := ethtypes.NewHash(w.Hash)
	if err != nil {
		return nil, err
	}
	parent, err := ethtypes.NewHash(w.ParentHash)
	if err != nil {
		return nil, err
	}
	timestamp, _ := ethtypes.ParseHexUint64(w.Timestamp)
	gasUsed, _ := ethtypes.ParseHexUint64(w.GasUsed)
	gasLimit, _ := ethtypes.ParseHexUint64(w.GasLimit)

	var baseFee *ethtypes.Wei
	if w.BaseFeePerGas != "" {
		v, err := ethtypes.NewWeiFromHex(w.BaseFeePerGas)
		if err != nil {
			return nil, err
		}
		baseFee = &v
	}

	txs := make([]ethtypes.Hash, 0, len(w.Transactions))
	for _, t := range w.Transactions {
		h, err := ethtypes.NewHash(t)
		if err != nil {
			return nil, err
		}
		txs = append(txs, h)
	}

	return &Block{
		Number:        number,
		Hash:          hash,
		ParentHash:    parent,
		Timestamp:     timestamp,
		GasUsed:       gasUsed,
		GasLimit:      gasLimit,
		BaseFeePerGas: baseFee,
		Transactions:  txs,
	}, nil
}

type wireTransaction struct {
	Hash                 string  `json:"hash"`
	From                 string  `json:"from"`
	To                   *string `json:"to"`
	Value                string  `json:"value"`
	Nonce                string  `json:"nonce"`
	Gas                  string  `json:"gas"`
	GasPrice             string  `json:"gasPrice"`
	MaxFeePerGas         string  `json:"maxFeePerGas"`
	MaxPriorityFeePerGas string  `json:"maxPriorityFeePerGas"`
	Input                string  `json:"input"`
	BlockNumber          *string `json:"blockNumber"`
	BlockHash            *string `json:"blockHash"`
}

func decodeTransaction(raw json.RawMessage) (*Transaction, error) {
	var w wireTransaction
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decoding transaction: %w", err)
	}
	hash, err := ethtypes.NewHash(w.Hash)
	if err != nil {
		return nil, err
	}
	from, err := ethtypes.NewAddress(w.From)
	if err != nil {
		return nil, err
	}
	var to *ethtypes.Address
	if w.To != nil && *w.To != "" {
		a, err := ethtypes.NewAddress(*w.To)
		if err != nil {
			return nil, err
		}
		to = &a
	}
	value, err := ethtypes.NewWeiFromHex(w.Value)
	if err != nil {
		return nil, err
	}
	nonce, _ := ethtypes.ParseHexUint64(w.Nonce)
	gasLimit, _ := ethtypes.ParseHexUint64(w.Gas)
	input, err := ethtypes.NewHexData(w.Input)
	if err != nil {
		return nil, err
	}

	var gasPrice, maxFee, maxPriority *ethtypes.Wei
	if w.GasPrice != "" {
		v, _ := ethtypes.NewWeiFromHex(w.GasPrice)
		gasPrice = &v
	}
	if w.MaxFeePerGas != "" {
		v, _ := ethtypes.NewWeiFromHex(w.MaxFeePerGas)
		maxFee = &v
	}
	if w.MaxPriorityFeePerGas != "" {
		v, _ := ethtypes.NewWeiFromHex(w.MaxPriorityFeePerGas)
		maxPriority = &v
	}

	var blockNumber *uint64
	if w.BlockNumber != nil && *w.BlockNumber != "" {
		n, _ := ethtypes.ParseHexUint64(*w.BlockNumber)
		blockNumber = &n
	}
	var blockHash *ethtypes.Hash
	if w.BlockHash != nil && *w.BlockHash != "" {
		h, err := ethtypes.NewHash(*w.BlockHash)
		if err != nil {
			return nil, err
		}
		blockHash = &h
	}

	return &Transaction{
		Hash: hash, From: from, To: to, Value: value, Nonce: nonce, GasLimit: gasLimit,
		GasPrice: gasPrice, MaxFeePerGas: maxFee, MaxPriorityFeePerGas: maxPriority,
		Input: input, BlockNumber: blockNumber, BlockHash: blockHash,
	}, nil
}

type wireLog struct {
	Address         string   `json:"address"`
	Topics          []string `json:"topics"`
	Data            string   `json:"data"`
	BlockNumber     string   `json:"blockNumber"`
	TransactionHash string   `json:"transactionHash"`
	LogIndex        string   `json:"logIndex"`
	Removed         bool     `json:"removed"`
}

func decodeLog(w wireLog) (Log, error) {
	addr, err := ethtypes.NewAddress(w.Address)
	if err != nil {
		return Log{}, err
	}
	topics := make([]ethtypes.Hash, 0, len(w.Topics))
	for _, t := range w.Topics {
		h, err := ethtypes.NewHash(t)
		if err != nil {
			return Log{}, err
		}
		topics = append(topics, h)
	}
	data, err := ethtypes.NewHexData(w.Data)
	if err != nil {
		return Log{}, err
	}
	blockNumber, _ := ethtypes.ParseHexUint64(w.BlockNumber)
	txHash, err := ethtypes.NewHash(w.TransactionHash)
	if err != nil {
		return Log{}, err
	}
	logIndex, _ := ethtypes.ParseHexUint64(w.LogIndex)

	return Log{
		Address: addr, Topics: topics, Data: data, BlockNumber: blockNumber,
		TransactionHash: txHash, LogIndex: logIndex, Removed: w.Removed,
	}, nil
}

func decodeLogs(raw json.RawMessage) ([]Log, error) {
	var wireLogs []wireLog
	if err := json.Unmarshal(raw, &wireLogs); err != nil {
		return nil, fmt.Errorf("decoding logs: %w", err)
	}
	logs := make([]Log, 0, len(wireLogs))
	for _, w := range wireLogs {
		l, err := decodeLog(w)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, nil
}

type wireReceipt struct {
	TransactionHash   string    `json:"transactionHash"`
	BlockNumber       string    `json:"blockNumber"`
	BlockHash         string    `json:"blockHash"`
	Status            string    `json:"status"`
	GasUsed           string    `json:"gasUsed"`
	CumulativeGasUsed string    `json:"cumulativeGasUsed"`
	ContractAddress   *string   `json:"contractAddress"`
	Logs              []wireLog `json:"logs"`
}

func decodeReceipt(raw json.RawMessage) (*Receipt, error) {
	var w wireReceipt
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decoding receipt: %w", err)
	}
	txHash, err := ethtypes.NewHash(w.TransactionHash)
	if err != nil {
		return nil, err
	}
	blockNumber, _ := ethtypes.ParseHexUint64(w.BlockNumber)
	blockHash, err := ethtypes.NewHash(w.BlockHash)
	if err != nil {
		return nil, err
	}
	gasUsed, _ := ethtypes.ParseHexUint64(w.GasUsed)
	cumulativeGasUsed, _ := ethtypes.ParseHexUint64(w.CumulativeGasUsed)
	status := w.Status == "0x1"

	var contractAddr *ethtypes.Address
	if w.ContractAddress != nil && *w.ContractAddress != "" {
		a, err := ethtypes.NewAddress(*w.ContractAddress)
		if err != nil {
			return nil, err
		}
		contractAddr = &a
	}

	logs := make([]Log, 0, len(w.Logs))
	for _, wl := range w.Logs {
		l, err := decodeLog(wl)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	return &Receipt{
		TransactionHash: txHash, BlockNumber: blockNumber, BlockHash: blockHash,
		Status: status, GasUsed: gasUsed, CumulativeGasUsed: cumulativeGasUsed,
		ContractAddress: contractAddr, Logs: logs,
	}, nil
}
