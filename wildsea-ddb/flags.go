package wildseaddb

import (
	wildseacli "github.com/jarrod-lowe/wildsea-sub001/wildsea-cli"
	"github.com/urfave/cli/v2"
)

var DDBOpts struct {
	DAXCluster string
	TableName  string
	Region     string
}

var DAXClusterFlag = wildseacli.StringFlag("dax-cluster", "The DAX cluster to connect to", &DDBOpts.DAXCluster)
var TableNameFlag = wildseacli.StringFlag("table-name", "The table name to read streams from", &DDBOpts.TableName)
var RegionFlag = wildseacli.StringFlag("region", "The AWS region for the DAX cluster", &DDBOpts.Region)

var DDBFlags = []cli.Flag{
	DAXClusterFlag,
	TableNameFlag,
	RegionFlag,
}
