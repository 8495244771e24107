package config

// DynamoDBConfig holds configuration for DynamoDB
type DynamoDBConfig struct {
	InUse             bool   `mapstructure:"in_use" default:"false"`
	Region            string `mapstructure:"region"`
	Endpoint          string `mapstructure:"endpoint"`
	ClientsTable      string `mapstructure:"clients_table"`
	ServicesTable     string `mapstructure:"services_table"`
	InvoicesTable     string `mapstructure:"invoices_table"`
	InvoiceLinesTable string `mapstructure:"invoice_lines_table"`
}
