package formulacore

// AllBuiltins concatenates every built-in function family (§4.6-§4.9).
func AllBuiltins() []Function {
	var all []Function
	all = append(all, mathFunctions...)
	all = append(all, logicalFunctions...)
	all = append(all, textFunctions...)
	all = append(all, webFunctions...)
	all = append(all, lookupFunctions...)
	all = append(all, conditionalFunctions...)
	all = append(all, databaseFunctions...)
	all = append(all, datetimeFunctions...)
	all = append(all, engineeringFunctions...)
	all = append(all, financialFunctions...)
	all = append(all, statisticalFunctions...)
	all = append(all, arrayFunctions...)
	all = append(all, infoFunctions...)
	all = append(all, lambdaFunctions...)
	return all
}
