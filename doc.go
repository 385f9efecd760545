/*
Package adstrat grows random forests of binary decision trees that
predict whether an ad shown to a visitor is clicked, and uses them to
suggest an alternative ad placement likely to get a click.

Trees are grown with Grow from a dataset of labelled records, splitting
on categorical attributes by Gini impurity. Train grows a forest of
trees, each from a bootstrap sample of the records and a random subset of
the attributes, and the resulting Forest predicts by majority vote.
Suggest searches a list of placements for one the forest predicts a click
for.
*/
package adstrat
