// internal/documents/set.go
package documents

// Set holds at most one document per type. Nil members were not provided.
type Set struct {
	BalanceSheet  *BalanceSheet
	ProfitLoss    *ProfitLoss
	BankStatement *BankStatement
	GSTReturns    *GSTReturns
	ITRDocument   *ITRDocument
	CIBILReport   *CIBILReport
}

// Locate picks the first document of each type. Later duplicates are ignored, not merged,
// and documents without fields are skipped.
func Locate(docs []Document) Set {
	var s Set
	for _, d := range docs {
		switch f := d.Fields.(type) {
		case *BalanceSheet:
			if s.BalanceSheet == nil && f != nil {
				s.BalanceSheet = f
			}
		case *ProfitLoss:
			if s.ProfitLoss == nil && f != nil {
				s.ProfitLoss = f
			}
		case *BankStatement:
			if s.BankStatement == nil && f != nil {
				s.BankStatement = f
			}
		case *GSTReturns:
			if s.GSTReturns == nil && f != nil {
				s.GSTReturns = f
			}
		case *ITRDocument:
			if s.ITRDocument == nil && f != nil {
				s.ITRDocument = f
			}
		case *CIBILReport:
			if s.CIBILReport == nil && f != nil {
				s.CIBILReport = f
			}
		}
	}
	return s
}

// Count returns the number of distinct document types present.
func (s Set) Count() int {
	return len(s.Present())
}

// Present lists the types in the set in the canonical order of Types.
func (s Set) Present() []Type {
	present := map[Type]bool{
		TypeBalanceSheet:  s.BalanceSheet != nil,
		TypeProfitLoss:    s.ProfitLoss != nil,
		TypeBankStatement: s.BankStatement != nil,
		TypeGSTReturns:    s.GSTReturns != nil,
		TypeITRDocument:   s.ITRDocument != nil,
		TypeCIBILReport:   s.CIBILReport != nil,
	}
	out := make([]Type, 0, len(Types))
	for _, t := range Types {
		if present[t] {
			out = append(out, t)
		}
	}
	return out
}
