package common

// PackageName tags logs and metrics emitted by this service.
const PackageName = "shop-provisioner"

// Version is set at build time via -ldflags.
var Version = "dev"
