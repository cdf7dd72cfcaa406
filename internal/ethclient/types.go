package ethclient

import "github.com/noise-xyz/brane/pkg/ethtypes"

// Block is a decoded eth_getBlockByNumber / eth_getBlockByHash result.
type Block struct {
	Number        uint64
	Hash          ethtypes.Hash
	ParentHash    ethtypes.Hash
	Timestamp     uint64
	GasUsed       uint64
	GasLimit      uint64
	BaseFeePerGas *ethtypes.Wei // nil pre-EIP-1559
	Transactions  []ethtypes.Hash
}

// Transaction is a decoded eth_getTransactionByHash result.
type Transaction struct {
	Hash                 ethtypes.Hash
	From                 ethtypes.Address
	To                   *ethtypes.Address
	Value                ethtypes.Wei
	Nonce                uint64
	GasLimit             uint64
	GasPrice             *ethtypes.Wei
	MaxFeePerGas         *ethtypes.Wei
	MaxPriorityFeePerGas *ethtypes.Wei
	Input                ethtypes.HexData
	BlockNumber          *uint64
	BlockHash            *ethtypes.Hash
}

// Log is a decoded event log entry.
type Log struct {
	Address         ethtypes.Address
	Topics          []ethtypes.Hash
	Data            ethtypes.HexData
	BlockNumber     uint64
	TransactionHash ethtypes.Hash
	LogIndex        uint64
	Removed         bool
}

// Receipt is a decoded eth_getTransactionReceipt result.
type Receipt struct {
	TransactionHash   ethtypes.Hash
	BlockNumber       uint64
	BlockHash         ethtypes.Hash
	Status            bool
	GasUsed           uint64
	CumulativeGasUsed uint64
	ContractAddress   *ethtypes.Address
	Logs              []Log
}
