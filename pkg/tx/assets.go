package tx

// LocationName registers a name on the chain (LNS-00).
type LocationName struct {
	Name             string `json:"name" msgpack:"n"`
	SourceChainName  string `json:"sourceChainName" msgpack:"cn"`
	SourceChainMagic string `json:"sourceChainMagic" msgpack:"cm"`
	OperationType    int    `json:"operationType" msgpack:"o"`
}

// IssueEntityFactory creates a factory entities can later be issued from (ETY-01).
type IssueEntityFactory struct {
	SourceChainName           string `json:"sourceChainName" msgpack:"cn"`
	SourceChainMagic          string `json:"sourceChainMagic" msgpack:"cm"`
	FactoryID                 string `json:"factoryId" msgpack:"f"`
	EntityPrealnum            Amount `json:"entityPrealnum" msgpack:"ep"`
	EntityFrozenAssetPrealnum Amount `json:"entityFrozenAssetPrealnum" msgpack:"ef"`
	PurchaseAssetPrealnum     Amount `json:"purchaseAssetPrealnum" msgpack:"pp"`
}

// IssueEntity issues one entity out of a factory (ETY-02).
type IssueEntity struct {
	SourceChainName        string             `json:"sourceChainName" msgpack:"cn"`
	SourceChainMagic       string             `json:"sourceChainMagic" msgpack:"cm"`
	EntityID               string             `json:"entityId" msgpack:"e"`
	TaxAssetPrealnum       Amount             `json:"taxAssetPrealnum" msgpack:"t"`
	EntityFactoryPossessor string             `json:"entityFactoryPossessor" msgpack:"p"`
	EntityFactory          IssueEntityFactory `json:"entityFactory" msgpack:"f"`
}

// TransferAsset moves an amount of an asset to the recipient (AST-02).
type TransferAsset struct {
	SourceChainName  string `json:"sourceChainName" msgpack:"cn"`
	SourceChainMagic string `json:"sourceChainMagic" msgpack:"cm"`
	AssetType        string `json:"assetType" msgpack:"a"`
	Amount           Amount `json:"amount" msgpack:"v"`
}

// Asset holds the type specific payload of a tx. Exactly one field is set.
type Asset struct {
	LocationName       *LocationName       `json:"locationName,omitempty" msgpack:"lns,omitempty"`
	IssueEntityFactory *IssueEntityFactory `json:"issueEntityFactory,omitempty" msgpack:"ef,omitempty"`
	IssueEntity        *IssueEntity        `json:"issueEntity,omitempty" msgpack:"e,omitempty"`
	TransferAsset      *TransferAsset      `json:"transferAsset,omitempty" msgpack:"ta,omitempty"`
}

func (a *Asset) count() int {
	n := 0
	if a.LocationName != nil {
		n++
	}
	if a.IssueEntityFactory != nil {
		n++
	}
	if a.IssueEntity != nil {
		n++
	}
	if a.TransferAsset != nil {
		n++
	}
	return n
}

func (a *Asset) payload(b Base) interface{} {
	switch b {
	case BaseLocationName:
		if a.LocationName != nil {
			return a.LocationName
		}
	case BaseIssueEntityFactory:
		if a.IssueEntityFactory != nil {
			return a.IssueEntityFactory
		}
	case BaseIssueEntity:
		if a.IssueEntity != nil {
			return a.IssueEntity
		}
	case BaseTransferAsset:
		if a.TransferAsset != nil {
			return a.TransferAsset
		}
	}
	return nil
}
