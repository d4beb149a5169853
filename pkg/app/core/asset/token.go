package asset

import "fmt"

// Category is a static classification used purely for display and filtering.
type Category int8

const (
	AI Category = iota
	DeFi
	Memes
	Infrastructure
	DAO
	Gaming
	Metaverse
	Social
	Oracle
)

func (c Category) String() string {
	switch c {
	case AI:
		return "AI"
	case DeFi:
		return "DeFi"
	case Memes:
		return "Memes"
	case Infrastructure:
		return "Infrastructure"
	case DAO:
		return "DAO"
	case Gaming:
		return "Gaming"
	case Metaverse:
		return "Metaverse"
	case Social:
		return "Social"
	case Oracle:
		return "Oracle"
	default:
		return "Unknown"
	}
}

// Region groups the venues a token can be quoted on.
type Region int8

const (
	Africa Region = iota
	Crypto
	US
)

func (r Region) String() string {
	switch r {
	case Africa:
		return "Africa"
	case Crypto:
		return "Crypto"
	case US:
		return "US"
	default:
		return "Unknown"
	}
}

// Venue is an external exchange a token is also traded on.
type Venue struct {
	Region   Region
	Exchange string
}

var (
	NajaEx    = Venue{Africa, "NajaEx"}
	MorrockEx = Venue{Africa, "MorrockEx"}
	WariEx    = Venue{Africa, "WariEx"}
	GCoin     = Venue{Africa, "GCoin"}
	XMGCoin   = Venue{Africa, "XMGCoin"}

	UpBit   = Venue{Crypto, "UpBit"}
	KuCoin  = Venue{Crypto, "KuCoin"}
	OKX     = Venue{Crypto, "OKX"}
	ByBit   = Venue{Crypto, "ByBit"}
	CoinDCX = Venue{Crypto, "CoinDCX"}
	Binance = Venue{Crypto, "Binance"}

	BinanceUS = Venue{US, "BinanceUS"}
	Coinbase  = Venue{US, "Coinbase"}
	Kraken    = Venue{US, "Kraken"}
)

func (v Venue) String() string { return fmt.Sprintf("%s/%s", v.Region, v.Exchange) }

// Token describes a listed asset. Only Ticker matters to the engine.
type Token struct {
	Ticker   AssetID
	Category Category
	Venue    Venue
}

func NewToken(ticker AssetID, category Category, venue Venue) Token {
	return Token{Ticker: ticker, Category: category, Venue: venue}
}
